package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantLevel zapcore.Level
		wantErr   bool
	}{
		{name: "defaults", cfg: DefaultConfig(), wantLevel: zapcore.InfoLevel},
		{name: "debug development", cfg: Config{Level: "DEBUG", Development: true, Encoding: "console"}, wantLevel: zapcore.DebugLevel},
		{name: "empty level", cfg: Config{}, wantLevel: zapcore.InfoLevel},
		{name: "unknown level", cfg: Config{Level: "chatty"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() failed: %v", err)
			}
			if !logger.Core().Enabled(tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
			if tt.wantLevel > zapcore.DebugLevel && logger.Core().Enabled(tt.wantLevel-1) {
				t.Errorf("expected level %v to be disabled", tt.wantLevel-1)
			}
		})
	}
}

func TestForHook(t *testing.T) {
	if ForHook(nil, "usePaymentUpdate") == nil {
		t.Fatal("ForHook(nil) returned nil logger")
	}

	logger := ForHook(zap.NewNop(), "usePaymentUpdate")
	if logger == nil {
		t.Fatal("ForHook returned nil logger")
	}
}
