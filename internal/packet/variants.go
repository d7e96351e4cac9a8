package packet

// Variant indices and their fixed meaning
const (
	VariantPrimary         = 0 // primary alone
	VariantWithResume      = 1 // primary + resume
	VariantWithReferences  = 2 // primary + resume + recommendations
	VariantComplete        = 3 // primary + resume + recommendations + transcript
	VariantResume          = 4 // resume alone
	VariantTranscript      = 5 // transcript alone
	VariantRecommendations = 6 // recommendations alone
)

// Variant is one numbered output document
type Variant struct {
	Index int    `json:"index"`
	Path  string `json:"path"`
}

// PlanVariants returns the variant indices that can be produced for the given
// attachment presence, in ascending order. Variants 1-3 form a cumulative
// chain resume -> recommendations -> transcript that stops at the first
// missing attachment.
func PlanVariants(p Presence) []int {
	indices := []int{VariantPrimary}

	if p.Resume {
		indices = append(indices, VariantWithResume)
		if p.Recommendations {
			indices = append(indices, VariantWithReferences)
			if p.Transcript {
				indices = append(indices, VariantComplete)
			}
		}
	}

	if p.Resume {
		indices = append(indices, VariantResume)
	}
	if p.Transcript {
		indices = append(indices, VariantTranscript)
	}
	if p.Recommendations {
		indices = append(indices, VariantRecommendations)
	}
	return indices
}
