package model

// SchemaVersion is the current on-disk schema version for the TodoFile
// aggregate. Bumped by the upgrade subsystem (spec.md §4.K).
const SchemaVersion = "1.0.0"

// Meta holds the TodoFile aggregate's bookkeeping fields (spec.md §3).
type Meta struct {
	SchemaVersion string `json:"schemaVersion"`
	Checksum      string `json:"checksum"`
	ConfigVersion string `json:"configVersion,omitempty"`
}

// TodoFile is the aggregate root owning a project's live tasks and
// project metadata (spec.md §3 Ownership).
type TodoFile struct {
	Meta        Meta                    `json:"_meta"`
	Project     ProjectMeta             `json:"project"`
	LastUpdated string                  `json:"lastUpdated"`
	Focus       map[string]FocusBinding `json:"focus,omitempty"`
	Tasks       []*Task                 `json:"tasks"`
}

// NewTodoFile returns an empty, schema-valid TodoFile.
func NewTodoFile() *TodoFile {
	return &TodoFile{
		Meta: Meta{SchemaVersion: SchemaVersion},
		Project: ProjectMeta{
			Phases: map[string]*Phase{},
		},
		Focus: map[string]FocusBinding{},
		Tasks: []*Task{},
	}
}

// ArchiveFile is the aggregate root owning archived tasks (spec.md §3
// Ownership: "The archive aggregate owns archived tasks").
type ArchiveFile struct {
	Meta  Meta    `json:"_meta"`
	Tasks []*Task `json:"tasks"`
}

// NewArchiveFile returns an empty, schema-valid ArchiveFile.
func NewArchiveFile() *ArchiveFile {
	return &ArchiveFile{Meta: Meta{SchemaVersion: SchemaVersion}, Tasks: []*Task{}}
}

// FindTask returns the task with the given id, or nil.
func (t *TodoFile) FindTask(id string) *Task {
	for _, task := range t.Tasks {
		if task.ID == id {
			return task
		}
	}
	return nil
}

// TaskIndex returns a map from task id to its index in Tasks, for
// callers doing repeated lookups (e.g. dependency-graph construction).
func (t *TodoFile) TaskIndex() map[string]int {
	idx := make(map[string]int, len(t.Tasks))
	for i, task := range t.Tasks {
		idx[task.ID] = i
	}
	return idx
}
