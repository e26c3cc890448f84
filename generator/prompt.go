package generator

import (
	"fmt"
	"strings"
)

// Prompt 表示发送给 LLM 的消息集合。
type Prompt struct {
	System  string
	User    string
	History []Message
}

// Message 用于少量历史（可选）。
type Message struct {
	Role    string
	Content string
}

// Messages flattens the prompt into the ordered role/content sequence sent to a backend.
func (p Prompt) Messages() []Message {
	msgs := make([]Message, 0, len(p.History)+2)
	if p.System != "" {
		msgs = append(msgs, Message{Role: "system", Content: p.System})
	}
	for _, h := range p.History {
		role := h.Role
		if role == "" {
			role = "user"
		}
		msgs = append(msgs, Message{Role: role, Content: h.Content})
	}
	if p.User != "" {
		msgs = append(msgs, Message{Role: "user", Content: p.User})
	}
	return msgs
}

// BuildOutlinePrompt asks for a JSON object with a single "outline" array.
func BuildOutlinePrompt(persona, topic string) Prompt {
	return Prompt{
		System: persona,
		User:   fmt.Sprintf("Generate a blog post outline for the topic: %s", topic),
	}
}

// BuildSectionPrompt 生成单节写作提示词，research 为检索结果文本（可空）。
func BuildSectionPrompt(persona, sectionTopic, research string) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Write the content for the blog post section: '%s'", sectionTopic))
	if strings.TrimSpace(research) != "" {
		sb.WriteString("\n\nSearch results:\n")
		sb.WriteString(research)
	}
	return Prompt{System: persona, User: sb.String()}
}

// BuildReviewPrompt hands the full draft to the editor persona as-is.
func BuildReviewPrompt(persona, draft string) Prompt {
	return Prompt{System: persona, User: draft}
}

// BuildImagePrompt 生成封面图请求。
func BuildImagePrompt(persona, topic string) Prompt {
	return Prompt{
		System: persona,
		User:   fmt.Sprintf("Generate a blog post cover image about: %s", topic),
	}
}
