package concurrency

import "github.com/cleohq/cleo/internal/paths"

func testLayout(root string) paths.Layout {
	return paths.NewLayout(root)
}
