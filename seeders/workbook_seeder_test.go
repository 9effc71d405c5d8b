package seeders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nbd-crr/internal/integrations/mock"
	"nbd-crr/internal/pipeline"
)

func TestSeedWorkbook(t *testing.T) {
	p := mock.NewMockProvider()
	SeedWorkbook(p, zap.NewNop())
	ctx := context.Background()

	report, err := p.FetchTable(ctx, pipeline.SheetReport)
	require.NoError(t, err)
	for _, l := range pipeline.Stages() {
		res, err := pipeline.ClassifyStage(report, l)
		require.NoError(t, err)
		assert.Len(t, res.Pending, 1, l.Stage)

		_, err = p.FetchTable(ctx, l.HistorySheet)
		assert.NoError(t, err, l.HistorySheet)
	}

	dropdown, err := p.FetchTable(ctx, pipeline.SheetDropdown)
	require.NoError(t, err)
	users, err := pipeline.LookupUsers(dropdown)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	options, err := pipeline.CollectDropdownOptions(dropdown)
	require.NoError(t, err)
	assert.Equal(t, []string{"Neha Kulkarni", "Sanjay Patil"}, options["salesCoordinator"])

	orders, err := p.FetchTable(ctx, pipeline.SheetOrderStatus)
	require.NoError(t, err)
	assert.Equal(t, pipeline.OrderBreakdown{Received: 1, Lost: 1, Hold: 1}, pipeline.BreakdownOrders(orders))
}
