package matching

import (
	"testing"
	"time"

	"github.com/yourorg/lifelink/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var matchTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func donor(id string, bloodType model.BloodType, city, state string, available bool, lastDonation *time.Time) model.Donor {
	return model.Donor{
		ID:               id,
		UserID:           "user-" + id,
		BloodType:        bloodType,
		City:             city,
		State:            state,
		Available:        available,
		LastDonationDate: lastDonation,
	}
}

func daysAgo(n int) *time.Time {
	t := matchTime.Add(-time.Duration(n) * 24 * time.Hour)
	return &t
}

func TestFindCandidatesExactBloodTypeOnly(t *testing.T) {
	// One O+ donor and one A+ donor in the same city; a request for O+
	// must yield exactly the O+ donor. No universal-donor substitution.
	pool := []model.Donor{
		donor("d1", model.BloodTypeOPositive, "Mumbai", "Maharashtra", true, nil),
		donor("d2", model.BloodTypeAPositive, "Mumbai", "Maharashtra", true, nil),
		donor("d3", model.BloodTypeONegative, "Mumbai", "Maharashtra", true, nil),
	}

	candidates := FindCandidates(Query{
		BloodType: model.BloodTypeOPositive,
		City:      "Mumbai",
		CreatedAt: matchTime,
	}, pool)

	require.Len(t, candidates, 1)
	assert.Equal(t, "d1", candidates[0].Donor.ID)
	assert.Equal(t, 1, candidates[0].Rank)
}

func TestFindCandidatesExcludesUnavailable(t *testing.T) {
	pool := []model.Donor{
		donor("d1", model.BloodTypeBNegative, "Pune", "Maharashtra", false, nil),
		donor("d2", model.BloodTypeBNegative, "Pune", "Maharashtra", true, nil),
	}

	candidates := FindCandidates(Query{
		BloodType: model.BloodTypeBNegative,
		City:      "Pune",
		CreatedAt: matchTime,
	}, pool)

	require.Len(t, candidates, 1)
	assert.Equal(t, "d2", candidates[0].Donor.ID)
}

func TestFindCandidatesEnforcesDonationInterval(t *testing.T) {
	pool := []model.Donor{
		donor("d1", model.BloodTypeAPositive, "Delhi", "Delhi", true, daysAgo(30)),
		donor("d2", model.BloodTypeAPositive, "Delhi", "Delhi", true, daysAgo(89)),
		donor("d3", model.BloodTypeAPositive, "Delhi", "Delhi", true, daysAgo(90)),
		donor("d4", model.BloodTypeAPositive, "Delhi", "Delhi", true, daysAgo(180)),
		donor("d5", model.BloodTypeAPositive, "Delhi", "Delhi", true, nil),
	}

	candidates := FindCandidates(Query{
		BloodType: model.BloodTypeAPositive,
		City:      "Delhi",
		CreatedAt: matchTime,
	}, pool)

	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.Donor.ID
	}

	// 90 days exactly is eligible again; 89 and 30 are not.
	assert.Equal(t, []string{"d3", "d4", "d5"}, ids)
}

func TestFindCandidatesRanksCityBeforeState(t *testing.T) {
	pool := []model.Donor{
		donor("d4", model.BloodTypeONegative, "Nagpur", "Maharashtra", true, nil),
		donor("d1", model.BloodTypeONegative, "Mumbai", "Maharashtra", true, nil),
		donor("d3", model.BloodTypeONegative, "Pune", "Maharashtra", true, nil),
		donor("d2", model.BloodTypeONegative, "Mumbai", "Maharashtra", true, nil),
	}

	candidates := FindCandidates(Query{
		BloodType: model.BloodTypeONegative,
		City:      "Mumbai",
		State:     "Maharashtra",
		CreatedAt: matchTime,
	}, pool)

	require.Len(t, candidates, 4)

	// City matches first, then same-state; id order breaks ties.
	assert.Equal(t, "d1", candidates[0].Donor.ID)
	assert.Equal(t, "d2", candidates[1].Donor.ID)
	assert.Equal(t, "d3", candidates[2].Donor.ID)
	assert.Equal(t, "d4", candidates[3].Donor.ID)

	assert.True(t, candidates[0].CityMatch)
	assert.True(t, candidates[1].CityMatch)
	assert.False(t, candidates[2].CityMatch)
	assert.False(t, candidates[3].CityMatch)

	for i, c := range candidates {
		assert.Equal(t, i+1, c.Rank)
	}
}

func TestFindCandidatesExcludesOtherStates(t *testing.T) {
	pool := []model.Donor{
		donor("d1", model.BloodTypeABPositive, "Mumbai", "Maharashtra", true, nil),
		donor("d2", model.BloodTypeABPositive, "Bangalore", "Karnataka", true, nil),
	}

	candidates := FindCandidates(Query{
		BloodType: model.BloodTypeABPositive,
		City:      "Mumbai",
		State:     "Maharashtra",
		CreatedAt: matchTime,
	}, pool)

	require.Len(t, candidates, 1)
	assert.Equal(t, "d1", candidates[0].Donor.ID)
}

func TestFindCandidatesIdempotent(t *testing.T) {
	pool := []model.Donor{
		donor("d2", model.BloodTypeOPositive, "Pune", "Maharashtra", true, daysAgo(120)),
		donor("d1", model.BloodTypeOPositive, "Mumbai", "Maharashtra", true, nil),
		donor("d3", model.BloodTypeOPositive, "Mumbai", "Maharashtra", false, nil),
	}

	query := Query{
		BloodType: model.BloodTypeOPositive,
		City:      "Mumbai",
		State:     "Maharashtra",
		CreatedAt: matchTime,
	}

	first := FindCandidates(query, pool)
	second := FindCandidates(query, pool)

	assert.Equal(t, first, second)
}

func TestFindCandidatesEmptyPool(t *testing.T) {
	candidates := FindCandidates(Query{
		BloodType: model.BloodTypeABNegative,
		City:      "Chennai",
		CreatedAt: matchTime,
	}, nil)

	require.NotNil(t, candidates)
	assert.Empty(t, candidates)
}

func TestEligible(t *testing.T) {
	q := Query{BloodType: model.BloodTypeOPositive, CreatedAt: matchTime}

	assert.True(t, Eligible(donor("d1", model.BloodTypeOPositive, "Mumbai", "MH", true, nil), q))
	assert.False(t, Eligible(donor("d2", model.BloodTypeONegative, "Mumbai", "MH", true, nil), q))
	assert.False(t, Eligible(donor("d3", model.BloodTypeOPositive, "Mumbai", "MH", false, nil), q))
	assert.False(t, Eligible(donor("d4", model.BloodTypeOPositive, "Mumbai", "MH", true, daysAgo(10)), q))
}
