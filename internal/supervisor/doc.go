// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

/*
Package supervisor runs the long-lived services of the API under suture v4.

	RootSupervisor ("nftmirror")
	├── DataSupervisor ("data-layer")
	│   └── DBMonitorService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashing database monitor is restarted without touching the HTTP server.
Supervisor events are logged through sutureslog, which writes to the zerolog
logger via logging.NewSlogLogger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	tree.AddDataService(services.NewDBMonitorService(executor, 30*time.Second))
	tree.AddAPIService(services.NewHTTPServerService(server, 15*time.Second))
	err = tree.Serve(ctx) // returns when ctx is canceled
*/
package supervisor
