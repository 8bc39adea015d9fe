package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"clinicAppointments/internal/config"
)

func TestSetup_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "clinic.log")
	logger, closer, err := Setup(config.LogConfig{File: path, Level: "debug"})
	require.NoError(t, err)

	logger.WithField("component", "test").Info("hello clinic")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), "hello clinic"))
	require.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestSetup_RejectsUnknownLevel(t *testing.T) {
	_, _, err := Setup(config.LogConfig{Level: "chatty"})
	require.Error(t, err)
}

func TestSetup_StderrOnly(t *testing.T) {
	logger, closer, err := Setup(config.LogConfig{})
	require.NoError(t, err)
	require.NoError(t, closer.Close())
	require.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
