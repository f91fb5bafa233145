// Package telegram is a client for the Telegram Bot API.
//
// The package centers on the update-polling subsystem:
//
//   - Client issues RPC calls (sendMessage, getFile, ...) over raw
//     net/http + form encoding, decoding every response through the
//     shared {ok, result|error} envelope.
//   - Poller owns the getUpdates cursor for one bot credential and
//     guarantees that updates acknowledged by one poll are never
//     delivered again by a later one.
//   - Registry hands out at most one Poller per credential, so two
//     Clients built with the same token cannot race each other for the
//     same server-side queue.
//   - Listener pumps a Poller in the background and feeds a handler.
//
// Failures are typed: *TransportError (the server was never reached),
// *APIError (the server said no), *MalformedResponseError (the body was
// not an envelope), and *DecodeError (the result did not match the
// target shape). No layer converts an error into an empty result.
//
// No external Telegram library is used; domain vocabulary the API treats
// as data (keyboards, inline results) passes through opaquely as JSON.
package telegram
