package llamacpp

/*
#include <stdlib.h>
#include "llama.h"
*/
import "C"
import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unsafe"
)

// LlamaEmbedder owns one loaded model and its inference context. Safe for
// concurrent use: a llama context is single-threaded, so calls serialize on
// the mutex.
type LlamaEmbedder struct {
	mu        sync.Mutex
	model     *C.struct_llama_model
	ctx       *C.struct_llama_context
	isEncoder bool
	nCtx      int
}

// NewLlamaEmbedder loads the GGUF model at modelPath and prepares an
// embedding context. CPU only.
func NewLlamaEmbedder(modelPath string) (*LlamaEmbedder, error) {
	initBackend()

	cPath := C.CString(modelPath)
	defer C.free(unsafe.Pointer(cPath))

	mParams := C.llama_model_default_params()
	mParams.n_gpu_layers = 0

	model := C.llama_model_load_from_file(cPath, mParams)
	if model == nil {
		return nil, fmt.Errorf("failed to load model from %s", modelPath)
	}

	// Embedding inputs are short, 512 tokens covers a chunk with headroom
	nCtx := 512

	cParams := C.llama_context_default_params()
	cParams.embeddings = true
	cParams.n_ctx = C.uint32_t(nCtx)
	cParams.n_batch = C.uint32_t(nCtx)
	cParams.n_ubatch = C.uint32_t(nCtx)

	ctx := C.llama_init_from_model(model, cParams)
	if ctx == nil {
		C.llama_model_free(model)
		return nil, errors.New("failed to create llama context")
	}

	// Encoder models (BERT family, T5) go through llama_encode, decoder
	// models through llama_decode. Some encoder GGUFs do not report
	// has_encoder, so fall back to the architecture metadata.
	isEncoder := false
	if C.llama_model_has_encoder(model) {
		isEncoder = true
	} else {
		key := C.CString("general.architecture")
		buf := make([]byte, 64)
		ret := C.llama_model_meta_val_str(model, key, (*C.char)(unsafe.Pointer(&buf[0])), C.size_t(len(buf)))
		C.free(unsafe.Pointer(key))

		if ret > 0 {
			arch := strings.ToLower(string(buf[:ret]))
			if strings.Contains(arch, "bert") || strings.Contains(arch, "t5") {
				isEncoder = true
			}
		}
	}

	return &LlamaEmbedder{
		model:     model,
		ctx:       ctx,
		isEncoder: isEncoder,
		nCtx:      nCtx,
	}, nil
}

// Free releases the C memory for the model and context. The embedder is
// unusable afterwards.
func (l *LlamaEmbedder) Free() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ctx != nil {
		C.llama_free(l.ctx)
		l.ctx = nil
	}
	if l.model != nil {
		C.llama_model_free(l.model)
		l.model = nil
	}
}

// Embed produces the embedding vector for text. The C call itself cannot be
// interrupted, so the context is only checked before inference starts.
func (l *LlamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.model == nil || l.ctx == nil {
		return nil, errors.New("embedder is not initialized or already freed")
	}

	// NUL bytes would terminate the C string early
	text = strings.ReplaceAll(text, "\x00", "")
	if text == "" {
		return nil, errors.New("text is empty")
	}

	cText := C.CString(text)
	defer C.free(unsafe.Pointer(cText))

	vocab := C.llama_model_get_vocab(l.model)
	tokens := make([]C.llama_token, l.nCtx)

	// Tokenize with truncation at the context size
	nTokens := C.llama_tokenize(
		vocab,
		cText,
		C.int32_t(len(text)),
		(*C.llama_token)(unsafe.Pointer(&tokens[0])),
		C.int32_t(l.nCtx),
		true, // add_special
		true, // parse_special
	)
	if nTokens < 0 {
		return nil, fmt.Errorf("tokenization failed (code: %d)", nTokens)
	}
	if int(nTokens) > l.nCtx {
		nTokens = C.int32_t(l.nCtx)
	}

	batch := C.llama_batch_get_one(
		(*C.llama_token)(unsafe.Pointer(&tokens[0])),
		nTokens,
	)

	if l.isEncoder {
		if res := C.llama_encode(l.ctx, batch); res != 0 {
			return nil, fmt.Errorf("llama_encode failed with code %d", res)
		}
	} else {
		if res := C.llama_decode(l.ctx, batch); res != 0 {
			return nil, fmt.Errorf("llama_decode failed with code %d", res)
		}
	}

	// Pooled sequence embedding for encoders, last token otherwise
	var embPtr *C.float
	if l.isEncoder {
		embPtr = C.llama_get_embeddings_seq(l.ctx, 0)
	} else {
		embPtr = C.llama_get_embeddings_ith(l.ctx, -1)
	}
	if embPtr == nil {
		embPtr = C.llama_get_embeddings(l.ctx)
	}
	if embPtr == nil {
		return nil, errors.New("failed to retrieve embeddings (pointer is nil)")
	}

	nEmbd := int(C.llama_model_n_embd(l.model))
	cSlice := unsafe.Slice((*float32)(unsafe.Pointer(embPtr)), nEmbd)
	result := make([]float32, nEmbd)
	copy(result, cSlice)

	return result, nil
}
