// Package shutdown coordinates graceful process termination.
//
// A Handler waits for SIGINT or SIGTERM (or an explicit Trigger), then
// runs the registered hooks in reverse registration order under a shared
// timeout:
//
//	h := shutdown.NewHandler(15 * time.Second)
//	h.OnShutdown("http", srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown
