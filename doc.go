/*
Package actionbridge lets clients send a script of HTTP actions to a Go service
in a single request. Each router instruction in the script is dispatched as an
in-process HTTP request to the host application, and the responses are
normalized into values the script can use.

# Concept

The bridge registers an executor (named "router" by default) in a script engine.
A script instruction such as

	{"$exec": "router", "$args": {"method": "get", "path": "/object/1"}}

becomes GET /object/1 against the host http.Handler, with no socket involved.
Method shortcuts are registered too, so {"$$router.post": {...}} always sends a
POST, whatever method the action itself declares.

# Response policies

  - "default": {statusCode, headers, body, request} for every status code.
  - "body": the response body for statuses below 300, an error otherwise.
  - a custom policy.Func supplied with WithCustomPolicy.

# Usage

	app := chi.NewRouter() // your application
	bridge, err := actionbridge.New(app, actionbridge.WithBasePath("/api"))
	if err != nil {
		log.Fatal(err)
	}
	app.Post("/js", bridge.ServeHTTP)

A request to /js with {"script": ..., "data": ...} answers 200 with the
evaluated script, 400 when the script is invalid, or the failure status when
evaluation fails.
*/
package actionbridge
