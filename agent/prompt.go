package agent

import (
	"strings"

	"github.com/viant/mcp-agent/agent/tool"
)

// EndMarker is the reply with which the model ends a conversation.
const EndMarker = "end"

const protocolPrompt = `Choose the appropriate tool based on the user's question. If no tool is needed, reply directly.

IMPORTANT: When you need to use a tool, you must ONLY respond with the exact JSON object format below, nothing else:
{
    "tool": "tool-name",
    "arguments": {
        "argument-name": "value"
    }
}


After receiving a tool's response:
1. Transform the raw data into a natural, conversational response
2. Keep responses concise but informative
3. Focus on the most relevant information
4. Use appropriate context from the user's question
5. Avoid simply repeating the raw data

Please use only the tools that are explicitly defined above.

If you want to terminate the conversation or need user confirmation or ask for user input, you must respond with a simple message of "end", don't reply anything else.
`

// SystemPrompt renders the system message for instruction and tools.
func SystemPrompt(instruction string, tools []*tool.Tool) string {
	builder := strings.Builder{}
	builder.WriteString(strings.TrimRight(instruction, ". \n"))
	builder.WriteString(" with access to these tools:\n\n")
	builder.WriteString(tool.Describe(tools))
	builder.WriteString("\n\n")
	builder.WriteString(protocolPrompt)
	return builder.String()
}
