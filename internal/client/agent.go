package client

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// call performs one outbound request with fiber's client agent, forwarding the
// caller credential. The effective timeout is the smaller of timeout and the
// context deadline.
func call(ctx context.Context, method, url, credential string, timeout time.Duration) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(url)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if credential != "" {
		agent.Set(fiber.HeaderAuthorization, credential)
	}
	agent.Timeout(timeout)

	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return 0, nil, err
	}

	// Bytes releases the agent.
	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return 0, nil, errors.Join(errs...)
	}
	return code, body, nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
