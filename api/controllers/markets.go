package controllers

import (
	"net/http"

	"github.com/angelmondragon/pricesnapshot/api/responses"
	"github.com/angelmondragon/pricesnapshot/pkg/markets"
)

func Markets(table *markets.Table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"default": table.Default().Code,
			"markets": table.All(),
		})
	}
}
