package env

import (
	"strings"
	"testing"
	"time"
)

type sampleConfig struct {
	Token    string        `env:"PULSE_TELEGRAM_TOKEN"`
	OwnerID  int64         `env:"PULSE_TELEGRAM_OWNER_ID"`
	Debug    bool          `env:"PULSE_DEBUG"`
	Timeout  time.Duration `env:"PULSE_SPECIALIST_TIMEOUT"`
	Ratio    float64       `env:"PULSE_RATIO"`
	internal string
	NoTag    string
}

func TestMarshalEnv(t *testing.T) {
	cfg := &sampleConfig{
		Token:    "123:abc",
		OwnerID:  42,
		Debug:    true,
		Timeout:  90 * time.Second,
		Ratio:    0.5,
		internal: "hidden",
		NoTag:    "hidden",
	}

	out, err := MarshalEnv(cfg)
	if err != nil {
		t.Fatalf("MarshalEnv() error = %v", err)
	}

	for _, want := range []string{
		"PULSE_TELEGRAM_TOKEN=123:abc",
		"PULSE_TELEGRAM_OWNER_ID=42",
		"PULSE_DEBUG=true",
		"PULSE_SPECIALIST_TIMEOUT=1m30s",
		"PULSE_RATIO=0.5",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if strings.Contains(out, "hidden") {
		t.Errorf("untagged fields must not leak:\n%s", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Errorf("output should end with a newline:\n%q", out)
	}
}

func TestMarshalEnvSkipsZeroValues(t *testing.T) {
	out, err := MarshalEnv(&sampleConfig{Token: "123:abc"})
	if err != nil {
		t.Fatalf("MarshalEnv() error = %v", err)
	}

	if strings.Contains(out, "OWNER_ID") || strings.Contains(out, "TIMEOUT") || strings.Contains(out, "DEBUG") {
		t.Errorf("zero values should be omitted:\n%s", out)
	}
	if out != "PULSE_TELEGRAM_TOKEN=123:abc\n" {
		t.Errorf("unexpected output:\n%q", out)
	}
}

func TestMarshalEnvDurationRoundTrips(t *testing.T) {
	// The emitted value must be re-parseable as a duration, not nanoseconds.
	out, err := MarshalEnv(&sampleConfig{Timeout: 2*time.Hour + 30*time.Minute})
	if err != nil {
		t.Fatalf("MarshalEnv() error = %v", err)
	}

	const prefix = "PULSE_SPECIALIST_TIMEOUT="
	line, found := strings.CutPrefix(strings.TrimSpace(out), prefix)
	if !found {
		t.Fatalf("missing %s line:\n%s", prefix, out)
	}

	d, err := time.ParseDuration(line)
	if err != nil {
		t.Fatalf("emitted duration %q does not parse: %v", line, err)
	}
	if d != 2*time.Hour+30*time.Minute {
		t.Fatalf("round-trip mismatch: got %v", d)
	}
}
