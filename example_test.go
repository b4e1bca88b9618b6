package actionbridge_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/aretw0/actionbridge"
	bridgehttp "github.com/aretw0/actionbridge/pkg/adapters/http"
	"github.com/go-chi/chi/v5"
)

// ExampleNew shows a host application evaluating a script that calls one of
// its own routes.
func ExampleNew() {
	app := chi.NewRouter()
	app.Get("/greeting/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"hello": chi.URLParam(r, "name")})
	})

	bridge, err := actionbridge.New(app, actionbridge.WithPolicy("body"))
	if err != nil {
		log.Fatal(err)
	}

	out := bridge.Handle(context.Background(), bridgehttp.Payload{
		Script: map[string]any{
			"$$router.get": map[string]any{"path": map[string]any{"$data": "/path"}},
		},
		Data: map[string]any{"path": "/greeting/gopher"},
	})

	fmt.Println(out.Status, out.Body)
	// Output: 200 map[hello:gopher]
}
