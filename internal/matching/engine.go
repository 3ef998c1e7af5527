package matching

import (
	"sort"
	"time"

	"github.com/yourorg/lifelink/internal/model"
)

// MinDonationInterval is the minimum spacing between a donor's donations.
// A donor whose last donation falls inside this window relative to the
// request's creation time is not eligible.
const MinDonationInterval = 90 * 24 * time.Hour

// Query describes what the engine matches donors against: the request's
// blood type, the target locality (the owning hospital's city and state),
// and the request creation time the eligibility window is measured from.
type Query struct {
	BloodType model.BloodType
	City      string
	State     string
	CreatedAt time.Time
}

// Candidate pairs a donor with its computed rank for a request. Candidates
// are transient engine output and are never persisted.
type Candidate struct {
	Donor     model.Donor `json:"donor"`
	CityMatch bool        `json:"city_match"`
	Rank      int         `json:"rank"`
}

// FindCandidates filters and ranks a snapshot of the donor pool for a
// request. It performs no I/O and is deterministic: identical inputs yield
// the identical ordered sequence, so it is safe to re-run at any time. An
// empty result means no eligible donors and is not an error.
//
// Only exact blood-type matches are candidates; ABO/Rh cross-compatibility
// substitution is deliberately not applied. Locality narrows to the query
// state when one is set, with exact-city matches ranked ahead of same-state
// ones; a query carrying only a city narrows to that city. Ties break on
// donor id.
func FindCandidates(q Query, donors []model.Donor) []Candidate {
	candidates := make([]Candidate, 0)
	for _, d := range donors {
		if !Eligible(d, q) {
			continue
		}
		if !inLocality(d, q) {
			continue
		}
		candidates = append(candidates, Candidate{
			Donor:     d,
			CityMatch: q.City != "" && d.City == q.City,
		})
	}
	rank(candidates)
	return candidates
}

// Eligible reports whether a single donor can serve the query: exact blood
// type, currently available, and outside the minimum donation interval.
func Eligible(d model.Donor, q Query) bool {
	if d.BloodType != q.BloodType {
		return false
	}
	if !d.Available {
		return false
	}
	if d.LastDonationDate != nil && q.CreatedAt.Sub(*d.LastDonationDate) < MinDonationInterval {
		return false
	}
	return true
}

// inLocality applies the locality filter. With a state set, every donor in
// that state is eligible and city proximity is left to ranking. With only a
// city set, the filter is an exact city match.
func inLocality(d model.Donor, q Query) bool {
	if q.State != "" {
		return d.State == q.State
	}
	return q.City == "" || d.City == q.City
}

func rank(candidates []Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].CityMatch != candidates[j].CityMatch {
			return candidates[i].CityMatch
		}
		return candidates[i].Donor.ID < candidates[j].Donor.ID
	})
	for i := range candidates {
		candidates[i].Rank = i + 1
	}
}
