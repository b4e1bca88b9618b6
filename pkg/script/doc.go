/*
Package script is a small evaluation engine for JSON scripts.

A script is any JSON value. Plain values evaluate to themselves, arrays are
evaluated item by item in order, and the members of plain objects are
evaluated concurrently. Two instructions are recognized:

	{"$exec": "router", "$method": "get", "$args": {"path": "/object/1"}}
	{"$data": "/user/id"}

$exec calls a registered executor (optionally one of its methods) with the
evaluated $args. $data reads a value out of the data supplied alongside the
script, addressed by a JSON pointer.

A macro is shorthand for $exec:

	{"$$router.get": {"path": "/object/1"}}

expands to {"$exec": "router", "$method": "get", "$args": {"path": "/object/1"}}.

Validation reports every issue at once, each located by a JSON pointer. In
strict mode (the default) instructions may not carry extra properties.
*/
package script
