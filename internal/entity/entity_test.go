package entity

import (
	"testing"

	"bidwizer-be/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlanTier(t *testing.T) {
	tests := []struct {
		raw     string
		want    PlanTier
		wantErr bool
	}{
		{raw: "FREE", want: PlanTierFree},
		{raw: " standard ", want: PlanTierStandard},
		{raw: "Premium", want: PlanTierPremium},
		{raw: "GOLD", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParsePlanTier(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperr.ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanCatalogIsImmutable(t *testing.T) {
	p := MustPlan(PlanTierStandard)
	p.Features[0] = "tampered"
	p.Seats = 99

	again := MustPlan(PlanTierStandard)
	assert.Equal(t, 5, again.Seats)
	assert.Equal(t, 5, again.PublisherFollowLimit)
	assert.NotEqual(t, "tampered", again.Features[0])
}

func TestTenderHasFolder(t *testing.T) {
	tender := Tender{Documents: []Document{
		{Id: "d1", Folder: "Technical/Drawings"},
		{Id: "d2", Folder: "Commercial"},
	}}

	assert.True(t, tender.HasFolder("Technical"))
	assert.True(t, tender.HasFolder("Technical/Drawings"))
	assert.True(t, tender.HasFolder("Commercial"))
	assert.False(t, tender.HasFolder("Tech"))
	assert.False(t, tender.HasFolder(""))

	_, ok := tender.FindDocument("d2")
	assert.True(t, ok)
	_, ok = tender.FindDocument("nope")
	assert.False(t, ok)
}
