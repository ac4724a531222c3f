package subscriber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techpress/core/internal/models"
	"github.com/techpress/core/internal/pkg/pagination"
	"github.com/techpress/core/internal/pkg/testdb"
)

func TestListFiltersBySource(t *testing.T) {
	db := testdb.Open(t, &models.SubscriberModel{})
	seed := []models.SubscriberModel{
		{Email: "a@example.com", Status: models.SubscriberActive, Source: "homepage"},
		{Email: "b@example.com", Status: models.SubscriberActive, Source: "footer"},
		{Email: "c@example.com", Status: models.SubscriberUnsubscribed, Source: "footer"},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	svc := NewService(db)
	source := "footer"
	subs, pag, err := svc.List(pagination.Query{Page: 1, Size: 20}, ListQuery{Source: &source})
	require.NoError(t, err)
	assert.EqualValues(t, 2, pag.Total)
	for _, s := range subs {
		assert.Equal(t, "footer", s.Source)
	}

	// Source combines with the other facets.
	status := models.SubscriberUnsubscribed
	subs, _, err = svc.List(pagination.Query{Page: 1, Size: 20}, ListQuery{Source: &source, Status: &status})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "c@example.com", subs[0].Email)
}
