// Package clientip extracts the client address of an HTTP request.
//
// Proxy headers are consulted in this order and the first one holding a
// usable address wins:
//
//  1. CF-Connecting-IP
//  2. DO-Connecting-IP
//  3. X-Forwarded-For, leftmost entry
//  4. X-Real-IP
//
// Then the host part of RemoteAddr is tried. Addresses are normalized with
// net.ParseIP, and unspecified addresses (0.0.0.0, ::) are skipped. When
// nothing parses, GetIP returns RemoteAddr unchanged.
//
// The headers are trusted as sent. Deploy behind a proxy that overwrites
// them, or clients can choose the key they are rate limited under.
package clientip
