/*
Package cache answers the question "have we already paid for this request?"
before the invocation layer spends tokens on a model call.

# Overview

A request (ordered message list + model tier) is serialized canonically and
hashed into a deterministic key. Lookup walks three decreasing-confidence
levels: exact match against a key/value backend, then the semantic and
template extension points. The first hit wins; a full miss is recorded and
returned as such.

# Core pieces

  - KeyStrategy / HashKeyStrategy: canonical serialization + SHA-256 keys.
  - Backend: capability-bounded store (Get/Set/Delete/Clear with TTL) with
    redis, sqlite, and in-process implementations.
  - NewBackendChain: ordered startup fallback — a backend that fails to
    construct is skipped, never consulted again.
  - TieredCache: lookup orchestration, TTL validation, statistics, and the
    singleflight GetOrCompute helper.
  - SemanticCache / TemplateCache: level 2/3 contracts; only no-op stubs
    ship here.

# Failure policy

The cache fails open. Backend initialization failure falls through the
chain; a per-call failure is logged and treated as a miss (Get) or no-op
(Set/Delete). With every backend down the cache behaves exactly like no
cache at all, which callers must already tolerate.

# Usage

	backend := cache.NewBackendChain(cfg, logger)
	tc := cache.NewTieredCache(cfg, backend, logger)
	defer tc.Close()

	if res := tc.Get(ctx, messages, tier, maxTokens); res.Hit {
		return res.Content
	}
	// ... call the model ...
	tc.Set(ctx, messages, tier, response, tokensUsed, cost)
*/
package cache
