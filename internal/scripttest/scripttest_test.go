// Package scripttest drives spec.md §8's concrete end-to-end scenarios
// (concurrent adds, cascade delete with impact preview, phase rollback
// gate, upgrade migration to relational, verification downstream
// invalidation) as rsc.io/script txtar scripts run against a freshly
// built cleo binary. The sixth scenario, atomic write survives kill,
// is exercised at the Go level instead (internal/atomicio/kill_test.go)
// since it needs precise control over mid-write process termination
// that a txtar script can't express.
//
// Grounded on rsc.io/script/scripttest, a teacher go.mod dependency
// (indirect in the retrieved pack) whose own API mirrors cmd/go's
// internal script-test engine — the same engine that cmd/go itself
// uses to test CLI behavior end-to-end against a real built binary.
package scripttest

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"rsc.io/script"
	"rsc.io/script/scripttest"
)

// buildCLI compiles the cleo binary once per test run into a directory
// that gets prepended to PATH, so every script invokes the same build
// via a bare `exec cleo ...` rather than each script re-running `go
// build`.
func buildCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	name := "cleo"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	bin := filepath.Join(dir, name)

	cmd := exec.Command("go", "build", "-o", bin, "github.com/cleohq/cleo/cmd/cleo")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("building cleo: %v\n%s", err, out)
	}
	return dir
}

func TestScripts(t *testing.T) {
	if testing.Short() {
		t.Skip("end-to-end CLI scripts build a real binary; skipped under -short")
	}
	binDir := buildCLI(t)

	engine := &script.Engine{
		Cmds:  script.DefaultCmds(),
		Conds: script.DefaultConds(),
	}

	env := append(os.Environ(), "PATH="+binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	ctx := context.Background()
	scripttest.Test(t, ctx, engine, env, "../../testdata/script/*.txt")
}
