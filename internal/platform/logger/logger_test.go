package logger_test

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/srgjo27/stay_engine/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

func TestNew_Level(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, logger.New(logger.Options{Level: "debug"}).GetLevel())
	assert.Equal(t, logrus.InfoLevel, logger.New(logger.Options{Level: "chatty"}).GetLevel())
	assert.Equal(t, logrus.InfoLevel, logger.New(logger.Options{}).GetLevel())
}

func TestNew_WritesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "stay.log")

	log := logger.New(logger.Options{Level: "info", File: file})
	log.WithField("booking_id", "b-1").Info("booking created")

	assert.FileExists(t, file)
}
