package service

import (
	"os"
	"testing"

	"go.uber.org/zap"

	"learning_pathway_backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}
