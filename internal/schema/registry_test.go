package schema

import (
	"testing"

	"github.com/cleohq/cleo/internal/model"
)

func TestChecksumTasksIsOrderIndependent(t *testing.T) {
	a := []*model.Task{{ID: "T2", Title: "two"}, {ID: "T1", Title: "one"}}
	b := []*model.Task{{ID: "T1", Title: "one"}, {ID: "T2", Title: "two"}}
	if ChecksumTasks(a) != ChecksumTasks(b) {
		t.Error("checksum should not depend on slice order")
	}
}

func TestChecksumTasksChangesWithContent(t *testing.T) {
	a := []*model.Task{{ID: "T1", Title: "one"}}
	b := []*model.Task{{ID: "T1", Title: "changed"}}
	if ChecksumTasks(a) == ChecksumTasks(b) {
		t.Error("checksum should change when task content changes")
	}
}

func TestRegistryCoversEveryDocumentKind(t *testing.T) {
	want := map[DocumentKind]bool{
		DocumentTodo: true, DocumentArchive: true, DocumentSessions: true,
		DocumentSequence: true, DocumentConfig: true,
	}
	for _, d := range Registry {
		delete(want, d.Kind)
		if d.SchemaVersion != model.SchemaVersion {
			t.Errorf("%s SchemaVersion = %q, want %q", d.Kind, d.SchemaVersion, model.SchemaVersion)
		}
	}
	if len(want) != 0 {
		t.Errorf("Registry missing document kinds: %+v", want)
	}
}

func TestRegistryOrdersTodoBeforeArchiveAndSessions(t *testing.T) {
	pos := map[DocumentKind]int{}
	for i, d := range Registry {
		pos[d.Kind] = i
	}
	if pos[DocumentTodo] >= pos[DocumentArchive] || pos[DocumentTodo] >= pos[DocumentSessions] {
		t.Error("todo must come before archive and sessions in Registry")
	}
}
