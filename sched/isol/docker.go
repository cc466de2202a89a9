// Docker Isolation
//
// Copyright (c) 2022, 2023  Philip Kaludercic
//
// This file is part of go-sandpit.
//
// go-sandpit is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License,
// version 3, as published by the Free Software Foundation.
//
// go-sandpit is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public
// License, version 3, along with go-sandpit. If not, see
// <http://www.gnu.org/licenses/>

package isol

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/pkg/errors"

	"go-sandpit"
)

// Environment variable that holds the current turn
const turnVariable = "SANDPIT_TURN"

// Limits for each container
const (
	memoryLimit = 256 * 1024 * 1024
	cpuLimit    = 1e9
)

// Container is a player distributed as a container image.  Every
// turn runs the image once, passing it the turn and reading a single
// row from its standard output.
type Container struct {
	Image string
}

func (c *Container) String() string { return c.Image }

func (c *Container) Instance() (sandpit.Decider, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, errors.Wrap(err, "Failed to connect to docker")
	}
	return &docker{name: c.Image, cont: cli}, nil
}

type docker struct {
	name string
	cont *client.Client
}

// Turn is passed to a container player
type Turn struct {
	Data    *sandpit.Table     `json:"data"`
	Victory sandpit.Assignment `json:"victory"`
}

func (d *docker) Decide(ctx context.Context, data *sandpit.Table, victory sandpit.Assignment) (sandpit.Row, error) {
	turn, err := json.Marshal(Turn{Data: data, Victory: victory})
	if err != nil {
		return nil, err
	}

	// The documentation for the library is sparse, but it is also
	// just a wrapper around a HTTP API.  To understand what this
	// configuration does, it is necessary to read
	// https://docs.docker.com/engine/api/v1.41/#operation/ContainerCreate
	resp, err := d.cont.ContainerCreate(ctx, &container.Config{
		Image:           d.name,
		Env:             []string{turnVariable + "=" + string(turn)},
		NetworkDisabled: true,
	}, &container.HostConfig{
		Resources: container.Resources{
			NanoCPUs: cpuLimit,
			Memory:   memoryLimit,
		},
		NetworkMode:    "none",
		ReadonlyRootfs: true,
	}, nil, nil, fmt.Sprintf("sandpit-%d", time.Now().UnixNano()))
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create container %s", d.name)
	}
	defer func() {
		// The context might have expired by now
		err := d.cont.ContainerRemove(context.Background(), resp.ID,
			types.ContainerRemoveOptions{Force: true})
		if err != nil {
			sandpit.Debug.WithError(err).Debugf("Failed to remove container %s", d.name)
		}
	}()

	if err := d.cont.ContainerStart(ctx, resp.ID, types.ContainerStartOptions{}); err != nil {
		return nil, errors.Wrapf(err, "Failed to start container %s", d.name)
	}

	okC, errC := d.cont.ContainerWait(ctx, resp.ID, container.WaitConditionNotRunning)
	select {
	case <-ctx.Done():
		return nil, sandpit.ErrTimedOut
	case err := <-errC:
		if ctx.Err() != nil {
			return nil, sandpit.ErrTimedOut
		}
		return nil, errors.Wrapf(err, "Container %v signalled an error", d.name)
	case body := <-okC:
		var stdout, stderr bytes.Buffer
		logs, err := d.cont.ContainerLogs(ctx, resp.ID, types.ContainerLogsOptions{
			ShowStdout: true,
			ShowStderr: true,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to read output of %s", d.name)
		}
		defer logs.Close()
		if _, err := stdcopy.StdCopy(&stdout, &stderr, logs); err != nil {
			return nil, errors.Wrapf(err, "Failed to demultiplex output of %s", d.name)
		}

		if body.StatusCode != 0 {
			return nil, &sandpit.ExecutionError{
				Msg: fmt.Sprintf("exit status %d: %s", body.StatusCode,
					strings.TrimSpace(stderr.String())),
			}
		}
		return parseRow(stdout.Bytes())
	}
}

// parseRow reads the first line of OUT as a row
func parseRow(out []byte) (sandpit.Row, error) {
	scan := bufio.NewScanner(bytes.NewReader(out))
	if !scan.Scan() {
		return nil, &sandpit.ExecutionError{Msg: "no output"}
	}

	var row sandpit.Row
	if err := json.Unmarshal(scan.Bytes(), &row); err != nil {
		return nil, &sandpit.ExecutionError{Msg: err.Error()}
	}
	return row, nil
}

func (d *docker) Close() error {
	return d.cont.Close()
}
