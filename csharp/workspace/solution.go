package workspace

import "path/filepath"

// Solution routes documents to the workspace that owns them: files under the
// root belong to the host workspace, all others to a shared
// miscellaneous-files workspace.
type Solution struct {
	host *Workspace
	misc *Workspace
}

// NewSolution returns a solution rooted at rootDir. An empty rootDir puts
// every file in the miscellaneous-files workspace.
func NewSolution(rootDir string) *Solution {
	s := &Solution{misc: NewMiscellaneous()}
	if rootDir != "" {
		s.host = New(rootDir)
	}
	return s
}

// Host returns the host workspace, or nil when the solution has no root.
func (s *Solution) Host() *Workspace {
	return s.host
}

func (s *Solution) Miscellaneous() *Workspace {
	return s.misc
}

func (s *Solution) WorkspaceFor(path string) *Workspace {
	if s.host != nil && s.host.Contains(path) {
		return s.host
	}
	return s.misc
}

func (s *Solution) Open(path, text string, version int32) *Document {
	return s.WorkspaceFor(filepath.Clean(path)).Open(filepath.Clean(path), text, version)
}

func (s *Solution) Update(path, text string, version int32) (*Document, error) {
	return s.WorkspaceFor(filepath.Clean(path)).Update(filepath.Clean(path), text, version)
}

func (s *Solution) Get(path string) *Document {
	return s.WorkspaceFor(filepath.Clean(path)).Get(filepath.Clean(path))
}

func (s *Solution) Close(path string) {
	s.WorkspaceFor(filepath.Clean(path)).Close(filepath.Clean(path))
}

func (s *Solution) Apply(doc *Document) error {
	return doc.Workspace().Apply(doc)
}
