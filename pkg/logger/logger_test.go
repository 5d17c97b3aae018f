package logger_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/almacen-api/pkg/logger"
)

func TestNew_EstampaElServicio(t *testing.T) {
	l := logger.New(logger.Config{Env: "production", Level: "info", Service: "almacen-api"})

	var buf bytes.Buffer
	zl := l.Zerolog().Output(&buf)
	zl.Info().Msg("hola")

	assert.Contains(t, buf.String(), `"service":"almacen-api"`)
}

func TestNew_NivelFiltra(t *testing.T) {
	l := logger.New(logger.Config{Env: "production", Level: "error"})

	var buf bytes.Buffer
	zl := l.Zerolog().Output(&buf)
	zl.Info().Msg("no debería salir")
	zl.Error().Msg("sí sale")

	out := buf.String()
	assert.NotContains(t, out, "no debería salir")
	assert.Contains(t, out, "sí sale")
}
