package resolver

import "github.com/vmunix/animeta/pkg/bangumi"

// acceptThreshold is the minimum 0-100 similarity score at which the best
// search candidate is accepted automatically.
const acceptThreshold = 80

// AcceptRanked returns the best-ranked candidate when its score clears the
// acceptance threshold, or nil. Candidates must arrive best first.
func AcceptRanked(candidates []bangumi.SearchCandidate) *bangumi.Subject {
	if len(candidates) == 0 {
		return nil
	}
	if candidates[0].Score >= acceptThreshold {
		subject := candidates[0].Subject
		return &subject
	}
	return nil
}
