package posimport_test

import (
	"context"
	"testing"

	"github.com/solemia/studio-api/internal/config"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/posimport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetCheckoutTableName(t *testing.T) {
	table, err := posimport.GetCheckoutTableName(domain.TenantSalon)
	require.NoError(t, err)
	assert.Equal(t, "dbo.solemia_beauty_checkoutline", table)

	table, err = posimport.GetCheckoutTableName(domain.TenantNutrition)
	require.NoError(t, err)
	assert.Equal(t, "dbo.solemia_nutricion_checkoutline", table)

	_, err = posimport.GetCheckoutTableName(domain.TenantID("barbershop"))
	assert.Error(t, err)
}

func TestNewClient_DisabledReturnsNil(t *testing.T) {
	client, err := posimport.NewClient(&config.POSImportConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, client)
	assert.False(t, client.IsEnabled())
}

func TestNewClient_MissingCredentialsReturnsNil(t *testing.T) {
	client, err := posimport.NewClient(&config.POSImportConfig{
		Enabled: true,
		URL:     "pos.internal:1433/solemia",
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestClient_NilSafety(t *testing.T) {
	var client *posimport.Client
	assert.False(t, client.IsEnabled())
	assert.NoError(t, client.Close())
	assert.Equal(t, "disabled", client.HealthCheck(context.Background()).Status)
}
