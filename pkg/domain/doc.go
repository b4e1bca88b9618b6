/*
Package domain contains the core data shapes shared by the bridge packages.

It is kept free of I/O so every other package (dispatch, policy, the HTTP front
door) can depend on it without pulling in transports.

# Key Entities

  - Action: the descriptor of one HTTP call a script wants executed.
  - RawResponse: what the host application answered for a single action.
  - Response: the default normalized result, a RawResponse plus the originating Action.
  - Hooks: observability callbacks fired around dispatches and handled requests.
*/
package domain
