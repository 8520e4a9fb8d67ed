package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/angelmondragon/pricesnapshot/pkg/errors"
	"github.com/angelmondragon/pricesnapshot/pkg/logger"
)

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, SuccessEnvelope{Data: data})
}

// ErrorPayload renders err the way clients see it: public message, and
// details only for codes that allow them.
func ErrorPayload(err error) (APIError, int) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := pkgerrors.MetadataFor(typed.Code())

	payload := APIError{
		Code:    string(typed.Code()),
		Message: pkgerrors.PublicMessage(typed),
	}
	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			payload.Details = details
		}
	}
	return payload, meta.HTTPStatus
}

func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	payload, status := ErrorPayload(err)

	if logg != nil {
		LogError(ctx, logg, err)
	}

	writeJSON(w, status, ErrorEnvelope{Error: payload})
}

// LogError logs err once with its cause chain.
func LogError(ctx context.Context, logg *logger.Logger, err error) {
	dump := pkgerrors.Dump(err)

	fields := map[string]any{
		"error":       dump.TopMessage,
		"error_code":  dump.Code,
		"error_chain": dump.Chain,
	}
	if dump.Upstream != "" {
		fields["upstream"] = dump.Upstream
		fields["upstream_status"] = dump.HTTPStatus
	}

	ctx = logg.WithFields(ctx, fields)
	if typed := pkgerrors.As(err); typed != nil && pkgerrors.MetadataFor(typed.Code()).HTTPStatus < http.StatusInternalServerError {
		logg.Warn(ctx, "request.error")
		return
	}
	logg.Error(ctx, "request.error", err)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
