package event

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// hookInputSchema describes the host's request record. Validation is
// advisory: a record that fails it degrades to a neutral event, it never
// fails the invocation.
const hookInputSchema = `{
	"type": "object",
	"properties": {
		"session_id": {"type": "string"},
		"tool_name": {"type": "string"},
		"tool_input": {"type": "object"},
		"cwd": {"type": "string"}
	},
	"required": ["tool_name"]
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
)

func inputSchema() *jsonschema.Schema {
	schemaOnce.Do(func() {
		var schemaObj any
		if err := json.Unmarshal([]byte(hookInputSchema), &schemaObj); err != nil {
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("hook_input.json", schemaObj); err != nil {
			return
		}
		sch, err := c.Compile("hook_input.json")
		if err != nil {
			return
		}
		compiledSchema = sch
	})
	return compiledSchema
}

// rawInput mirrors the host's wire record.
type rawInput struct {
	SessionID string          `json:"session_id"`
	ToolName  string          `json:"tool_name"`
	ToolInput json.RawMessage `json:"tool_input"`
	WorkDir   string          `json:"cwd"`
}

// Normalize parses raw untrusted input into an Event. It never fails: any
// parse error, schema violation, or missing field yields a neutral event
// plus a diagnostic note for the decision message. A recognized record with
// an unrecognized tool name is a deliberate neutral and carries no note.
func Normalize(raw []byte) (Event, string) {
	if len(raw) == 0 {
		return Event{Kind: ActionNone}, "empty input record"
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return Event{Kind: ActionNone}, fmt.Sprintf("failed to parse input: %v", err)
	}
	if sch := inputSchema(); sch != nil {
		if err := sch.Validate(generic); err != nil {
			return Event{Kind: ActionNone}, fmt.Sprintf("input record failed validation: %v", err)
		}
	}

	var in rawInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return Event{Kind: ActionNone}, fmt.Sprintf("failed to parse input: %v", err)
	}

	ev := Event{
		Kind:      ActionNone,
		SessionID: in.SessionID,
		WorkDir:   in.WorkDir,
	}

	switch in.ToolName {
	case "Bash":
		ev.Kind = ActionRunCommand
		ev.Command = stringField(in.ToolInput, "command")
		if ev.Command == "" {
			ev.Kind = ActionNone
			return ev, "run-command request with no command text"
		}
	case "Write":
		ev.Kind = ActionWriteFile
		ev.FilePath = stringField(in.ToolInput, "file_path")
		ev.Content = stringField(in.ToolInput, "content")
		if ev.FilePath == "" {
			ev.Kind = ActionNone
			return ev, "write-file request with no file path"
		}
	case "Edit":
		ev.Kind = ActionEditFile
		ev.FilePath = stringField(in.ToolInput, "file_path")
		ev.Edits = []Edit{{
			OldText: stringField(in.ToolInput, "old_string"),
			NewText: stringField(in.ToolInput, "new_string"),
		}}
		if ev.FilePath == "" {
			ev.Kind = ActionNone
			return ev, "edit-file request with no file path"
		}
	case "MultiEdit":
		ev.Kind = ActionEditFile
		ev.FilePath = stringField(in.ToolInput, "file_path")
		ev.Edits = editList(in.ToolInput)
		if ev.FilePath == "" {
			ev.Kind = ActionNone
			return ev, "edit-file request with no file path"
		}
	case "Read":
		ev.Kind = ActionReadFile
		ev.FilePath = stringField(in.ToolInput, "file_path")
	}

	return ev, ""
}

func stringField(raw json.RawMessage, key string) string {
	if len(raw) == 0 {
		return ""
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ""
	}
	var val string
	if err := json.Unmarshal(fields[key], &val); err != nil {
		return ""
	}
	return val
}

func editList(raw json.RawMessage) []Edit {
	if len(raw) == 0 {
		return nil
	}
	var in struct {
		Edits []struct {
			OldString string `json:"old_string"`
			NewString string `json:"new_string"`
		} `json:"edits"`
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil
	}
	edits := make([]Edit, 0, len(in.Edits))
	for _, e := range in.Edits {
		edits = append(edits, Edit{OldText: e.OldString, NewText: e.NewString})
	}
	return edits
}
