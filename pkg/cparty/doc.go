// Package cparty is the public face of the folding engine.
//
// Two contracts are offered. The Engine methods return explicit errors. The
// package-level Get* functions keep the sentinel contract: any failure
// (invalid sequence or structure, unavailable parameters, a structure no fold
// can realise) yields NaN and a slog.Debug record carrying the reason.
package cparty
