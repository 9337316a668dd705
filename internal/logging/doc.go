// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging owns the process-wide slog logger.
//
// The full-screen UI owns stdout, so records go to a file (~/.ava/ava.log by
// default). Before Init is called every record is discarded.
//
//	closer, err := logging.Init(logging.Options{Level: "debug", Path: path})
//	defer closer.Close()
//	logging.Info("api request", "method", "GET", "path", "/messages/")
package logging
