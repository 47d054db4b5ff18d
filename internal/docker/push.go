package docker

import (
	"context"
	"fmt"

	imagetypes "github.com/docker/docker/api/types/image"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/moby/term"

	"github.com/chartmint/chartmint/internal/logs"
)

// Push uploads ref to its registry, streaming daemon progress to the
// logger's writer.
func (c *Client) Push(ctx context.Context, ref string) error {
	logs.Infof("pushing %s", ref)

	rc, err := c.api.ImagePush(ctx, ref, imagetypes.PushOptions{
		RegistryAuth: c.auth,
	})
	if err != nil {
		return &RegistryError{Ref: ref, Err: err}
	}
	defer rc.Close()

	out := logs.Writer()
	fd, isTerm := term.GetFdInfo(out)
	if err := jsonmessage.DisplayJSONMessagesStream(rc, out, fd, isTerm, nil); err != nil {
		return &RegistryError{Ref: ref, Err: fmt.Errorf("push stream: %w", err)}
	}
	return nil
}
