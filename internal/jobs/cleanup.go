package jobs

import (
	"log"
	"os"
	"path/filepath"
)

// CleanupArtifacts removes output directories whose job is no longer in
// the store. Jobs expire from the store after their TTL; their audio
// and manifest files on disk outlive them until this task runs.
func CleanupArtifacts(ctx JobContext) {
	base := ctx.Config().Output.Path
	entries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		log.Printf("Artifact cleanup: cannot read %s: %v", base, err)
		return
	}

	live := make(map[string]bool)
	for _, id := range ctx.Store().JobIDs() {
		live[id] = true
	}

	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() || live[entry.Name()] {
			continue
		}
		dir := filepath.Join(base, entry.Name())
		if err := os.RemoveAll(dir); err != nil {
			log.Printf("Artifact cleanup: failed to remove %s: %v", dir, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Printf("Artifact cleanup removed %d orphaned job director(ies)", removed)
	}
}
