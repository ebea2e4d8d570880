package llamacpp

/*
#include "llama.h"

// Callback that drops all llama.cpp log output.
void noop_log_callback(enum ggml_log_level level, const char * text, void * user_data) {
    (void)level;
    (void)text;
    (void)user_data;
}

void disable_llama_logs() {
    llama_log_set(noop_log_callback, NULL);
}

void enable_llama_logs() {
    llama_log_set(NULL, NULL);
}
*/
import "C"
import "sync"

var onceBackend sync.Once

// initBackend loads the ggml backend once per process. It is never torn
// down: freeing the backend while an embedder is alive would invalidate
// that embedder's context.
func initBackend() {
	onceBackend.Do(func() {
		C.llama_backend_init()
	})
}

// SetSilentLogger discards all llama.cpp log output. This is the default.
func SetSilentLogger() {
	C.disable_llama_logs()
}

// SetDefaultLogger restores llama.cpp logging to stderr.
func SetDefaultLogger() {
	C.enable_llama_logs()
}

func init() {
	SetSilentLogger()
}
