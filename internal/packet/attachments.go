// Package packet assembles a compiled cover letter and the fixed attachments
// into numbered output variants.
package packet

import "github.com/jonathan/easel/internal/fsutil"

// AttachmentSet holds the paths of the externally owned attachments. Any of
// them may be missing on disk.
type AttachmentSet struct {
	Resume          string
	Transcript      string
	Recommendations string
}

// Presence records which attachments existed when it was computed
type Presence struct {
	Resume          bool
	Transcript      bool
	Recommendations bool
}

// Present checks the filesystem for every attachment. Nothing is cached.
func (a AttachmentSet) Present() Presence {
	return Presence{
		Resume:          a.Resume != "" && fsutil.Exists(a.Resume),
		Transcript:      a.Transcript != "" && fsutil.Exists(a.Transcript),
		Recommendations: a.Recommendations != "" && fsutil.Exists(a.Recommendations),
	}
}
