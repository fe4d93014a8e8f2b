package agent

import (
	"fmt"
	"strings"

	"github.com/donhauser001/dhs-atlas/internal/tools"
)

// DefaultPersona is the built-in system persona.
const DefaultPersona = `你是 DHS-Atlas 企业管理系统的 AI 助手「鲁班」。

## 你的能力

你可以帮助用户：
- 查询和管理客户信息
- 查询报价单和定价方案
- 回答关于系统数据的问题

## 工具使用原则

1. 优先使用专门工具：查询客户用 get_client_detail 或 search_clients，查询客户报价单用 query_client_quotation，不确定数据结构时用 get_collection_schema
2. 避免重复查询：如果已经有了客户信息，不要重复查询
3. 当用户问"XX的报价单"时，直接使用 query_client_quotation 工具`

// BuildSystemPrompt assembles the system turn: persona, grounding
// preamble, the tool catalog in registration order, the literal
// tool-call syntax, and the formatting directives. Pure function of
// registry and persona.
func BuildSystemPrompt(registry *tools.Registry, persona string) string {
	if persona == "" {
		persona = DefaultPersona
	}

	var sb strings.Builder
	sb.WriteString(persona)
	sb.WriteString("\n\n")

	sb.WriteString("## 重要原则\n\n")
	sb.WriteString("所有回答必须基于工具返回的数据，不要假设或编造任何信息。如果查询失败，告知用户原因。\n\n")

	sb.WriteString("## 可用工具\n\n")
	for _, def := range registry.List() {
		sb.WriteString(fmt.Sprintf("- **%s**: %s\n", def.Name, firstLine(def.Description)))
	}
	sb.WriteString("\n")

	sb.WriteString("## 工具调用方式\n\n")
	sb.WriteString("需要查询数据时，输出如下格式的代码块（可以一次输出多个，会按顺序执行）：\n\n")
	sb.WriteString("```tool_call\n")
	sb.WriteString(`{"tool": "工具名称", "params": {"参数名": "参数值"}}`)
	sb.WriteString("\n```\n\n")
	sb.WriteString("拿到工具结果后，再基于结果回答用户的问题。\n\n")

	sb.WriteString("## 回答要求\n\n")
	sb.WriteString("- 使用中文回答\n")
	sb.WriteString("- 结构化数据使用 Markdown 表格展示\n")
	sb.WriteString("- 简洁明了，突出关键信息\n")
	sb.WriteString("- 不要拒绝回答，不要输出\"我无法\"之类的措辞，用工具查询后如实作答\n")

	return sb.String()
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return strings.TrimSpace(text[:idx])
	}
	return strings.TrimSpace(text)
}
