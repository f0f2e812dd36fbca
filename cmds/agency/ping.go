package agency

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/findy-network/findy-cloud-agent/cmds"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// PingCmd checks that the server answers by requesting its version.
type PingCmd struct {
	BaseAddr string
}

func (c PingCmd) Validate() error {
	if c.BaseAddr == "" {
		return errors.New("server url cannot be empty")
	}
	return nil
}

func (c PingCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "ping")

	client := http.Client{Timeout: 3 * time.Second}
	resp := try.To1(client.Get(c.BaseAddr + "/version"))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status: %s", resp.Status)
	}
	version := try.To1(io.ReadAll(resp.Body))
	cmds.Fprintln(w, "ping ok.", "\nversion info:", string(version))
	return nil, nil
}
