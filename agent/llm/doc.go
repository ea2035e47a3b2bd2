// Package llm provides the chat completion client used by the agent. The
// Azure implementation targets an Azure OpenAI deployment with either an API
// key or the ambient Azure credential chain.
package llm
