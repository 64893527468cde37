// Package hrtc is an in-memory toolkit for the Hospitals/Residents
// problem with Ties and Couples: build two-sided preference markets,
// derive couples' joint lists, and verify matchings against the
// couple-aware stability notions from the matching literature.
//
// 🚀 What is hrtc?
//
//	A small, focused library that brings together:
//		• Core primitives: agents with tie-group preferences, couples with
//		  joint pair lists, instances and capacity-aware matchings
//		• Weight models: score-derived rankings with threshold cuts
//		• Cleanup passes: mutual-acceptability preprocessing, list trimming
//		• Stability checks: MM, BIS and KPR verdicts with witness pairs and
//		  a bounded-parallel full enumeration
//
// ✨ Why choose hrtc?
//
//   - Fail-loud API: unknown identifiers and unranked comparisons return
//     sentinel errors instead of silent defaults
//   - Deterministic: sorted enumeration surfaces, reproducible scan order
//   - Pure computation: no I/O and no global state, bring your own parser
//   - Context-aware: long scans honor cancellation and deadlines
//
// Everything is organized under two subpackages:
//
//	core/      - agents, couples, instances, matchings & preference queries
//	stability/ - the three stability modes & the blocking-pair engine
//
// Quick ASCII example:
//
//	    (A,a)──▶ h1  (two seats)
//	      B  ──▶ h1
//	             N   (three-seat fallback)
//
//	a couple and a single resident competing for a two-seat hospital,
//	with a roomy fallback nobody prefers.
//
//	go get github.com/stablekit/hrtc
package hrtc
