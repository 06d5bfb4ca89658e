// Package manifest records what a batch run produced as JSON.
//
// A manifest lists every figure with its status, the files it wrote and the
// normalization statistics of its table, plus the trajectory overlay. It is
// meant for scripts that package the figures, and for checking a run after
// the fact:
//
//	{
//	  "version": "v0.3.0",
//	  "generated": "2026-10-17T09:12:44Z",
//	  "figures": [
//	    {
//	      "name": "paths_dp_log",
//	      "dataset": "paths_dp",
//	      "mode": "log",
//	      "status": "rendered",
//	      "outputs": ["figs/paths_dp_log.png"],
//	      "rows": 81, "cols": 81,
//	      "stats": {"max": "1378465288200", "scale": 0, ...}
//	    },
//	    {"name": "visits_dp", "dataset": "visits_dp", "status": "skipped", "error": "..."}
//	  ],
//	  "trajectories": {"status": "rendered", "loaded": [0, 1, 2, 3, 4], ...}
//	}
//
// # Export
//
// Use [FromResult] to build a manifest, then [Export] to write it to a file
// or [Write] to write it to any io.Writer.
//
// # Import
//
// [Import] and [Read] decode a manifest written by this package. Unknown
// fields are rejected so a manifest from a newer version is reported rather
// than half read.
package manifest
