package types

import (
	"bytes"
	"encoding/json"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// LogRecord is one line of a Claude Code conversation log.
type LogRecord struct {
	ID          string  `json:"uuid"`
	ParentID    *string `json:"parentUuid"`
	Role        string  `json:"type"`
	Timestamp   string  `json:"timestamp"`
	CWD         string  `json:"cwd"`
	SessionID   string  `json:"sessionId,omitempty"`
	IsSidechain bool    `json:"isSidechain,omitempty"`
	Version     string  `json:"version,omitempty"`
	GitBranch   string  `json:"gitBranch,omitempty"`
	RequestID   string  `json:"requestId,omitempty"`
	Message     Message `json:"message"`

	// Time is Timestamp parsed by the loader.
	Time time.Time `json:"-"`
}

// Parent returns the parent id, or "" when the record has no parent.
func (r LogRecord) Parent() string {
	if r.ParentID == nil {
		return ""
	}
	return *r.ParentID
}

// IsPrompt reports whether r was typed by the user, as opposed to a
// tool-result echo injected into the user side of the conversation.
func (r LogRecord) IsPrompt() bool {
	if r.Role != RoleUser {
		return false
	}
	if r.Message.Role != "" && r.Message.Role != RoleUser {
		return false
	}
	return r.Message.Content.IsText
}

// IsResponse reports whether r is an assistant turn carrying usage data.
func (r LogRecord) IsResponse() bool {
	return r.Role == RoleAssistant && r.Message.Usage != nil
}

// ToolUses returns the tool_use blocks of the message in order.
func (r LogRecord) ToolUses() []ContentBlock {
	var out []ContentBlock
	for _, b := range r.Message.Content.Blocks {
		if b.Type == BlockToolUse {
			out = append(out, b)
		}
	}
	return out
}

type Message struct {
	ID      string  `json:"id,omitempty"`
	Role    string  `json:"role"`
	Model   string  `json:"model,omitempty"`
	Content Content `json:"content"`
	Usage   *Usage  `json:"usage,omitempty"`
}

// Usage mirrors message.usage. Absent counters decode as zero.
type Usage struct {
	InputTokens              int    `json:"input_tokens"`
	OutputTokens             int    `json:"output_tokens"`
	CacheCreationInputTokens int    `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int    `json:"cache_read_input_tokens"`
	ServiceTier              string `json:"service_tier,omitempty"`
}

// UnmarshalJSON accepts counters written as floats, such as 5.0.
func (u *Usage) UnmarshalJSON(data []byte) error {
	var raw struct {
		InputTokens              json.Number `json:"input_tokens"`
		OutputTokens             json.Number `json:"output_tokens"`
		CacheCreationInputTokens json.Number `json:"cache_creation_input_tokens"`
		CacheReadInputTokens     json.Number `json:"cache_read_input_tokens"`
		ServiceTier              string      `json:"service_tier"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*u = Usage{
		InputTokens:              tokenCount(raw.InputTokens),
		OutputTokens:             tokenCount(raw.OutputTokens),
		CacheCreationInputTokens: tokenCount(raw.CacheCreationInputTokens),
		CacheReadInputTokens:     tokenCount(raw.CacheReadInputTokens),
		ServiceTier:              raw.ServiceTier,
	}
	return nil
}

func tokenCount(n json.Number) int {
	if i, err := n.Int64(); err == nil {
		return int(i)
	}
	if f, err := n.Float64(); err == nil {
		return int(f)
	}
	return 0
}

func (u Usage) Counts() TokenCounts {
	return TokenCounts{
		InputTokens:              u.InputTokens,
		OutputTokens:             u.OutputTokens,
		CacheCreationInputTokens: u.CacheCreationInputTokens,
		CacheReadInputTokens:     u.CacheReadInputTokens,
	}
}

// Content holds message.content, which is either a plain string or an
// array of blocks.
type Content struct {
	Text   string
	Blocks []ContentBlock
	IsText bool
}

type ContentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
}

// UnmarshalJSON accepts a string or an array of blocks. Any other shape,
// and any block that does not decode, leaves the content empty so the
// record itself still counts as a link in its thread.
func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*c = Content{}
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Content{Text: s, IsText: true}
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		for _, item := range raw {
			var block ContentBlock
			if err := json.Unmarshal(item, &block); err != nil {
				continue
			}
			c.Blocks = append(c.Blocks, block)
		}
	}
	return nil
}

func (c Content) MarshalJSON() ([]byte, error) {
	if c.IsText {
		return json.Marshal(c.Text)
	}
	if c.Blocks == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.Blocks)
}
