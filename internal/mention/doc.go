// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mention implements the @-mention engine for the chatkit composer.
//
// The engine tracks three things across a compose session:
//
//   - confirmed mention spans inside the editable buffer (SpanIndex), kept
//     consistent while the user keeps typing, deleting, and pasting around
//     them;
//   - the active trigger, the @ plus keyword the caret currently sits in
//     (Detector);
//   - the suggestion handshake with the host: the Manager asks for candidate
//     users when a trigger activates, and discards results that come back
//     after the trigger has moved on.
//
// Mentions are atomic tokens. An edit may never land inside a confirmed span;
// deleting any part of one removes the whole span from the buffer and from
// the mentioned list.
//
// For persistence and transmission a message body is serialized to the
// template wire form, where each mention span is replaced by an @{userID}
// placeholder (see GenerateTemplate and BuildFromTemplate). The codec is
// defensive in both directions: spans that no longer match the live text are
// skipped, and placeholders naming unknown users are rendered as literal
// text. No operation in this package panics into the host.
//
// Everything here is UI-thread-affine: the Manager has no internal locking
// and expects to be driven from the single interactive event loop, with
// asynchronous candidate fetches re-entering through UpdateSuggestedUsers.
package mention
