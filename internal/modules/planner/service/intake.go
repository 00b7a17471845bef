package service

import (
	"io"
	"net/http"

	"github.com/13magician/kol-gold/internal/models"
	"github.com/13magician/kol-gold/pkg/logger"

	"github.com/bytedance/sonic"
)

// NewMux — HTTP-приём решений от внешнего слоя (листенер/AI). Сюда
// приходит уже распарсенная структура, никакого текста.
func NewMux(p *Planner) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/webhook", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			http.Error(w, "read body", http.StatusBadRequest)
			return
		}

		var d models.Decision
		if err := sonic.Unmarshal(body, &d); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if d.KOL == "" || d.Direction == "" {
			http.Error(w, "author and direction are required", http.StatusBadRequest)
			return
		}

		if err := p.HandleDecision(r.Context(), &d); err != nil {
			logger.Error("❌ [intake] решение %s %s %s не принято: %v", d.KOL, d.Symbol, d.Direction, err)
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// сводка по источникам для дашборда
	mux.HandleFunc("/performance", func(w http.ResponseWriter, r *http.Request) {
		stats, err := p.ledger.KOLPerformance(r.Context())
		if err != nil {
			logger.Error("❌ [intake] сводка по KOL: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		data, err := sonic.Marshal(stats)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	})

	return mux
}
