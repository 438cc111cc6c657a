package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"

	"github.com/chaisql/packstream"
	"github.com/chaisql/packstream/internal/wire"
)

func newEncodeCommand() *cli.Command {
	return &cli.Command{
		Name:  "encode",
		Usage: "read a JSON value from stdin and write its PackStream encoding to stdout as hex",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-byte-arrays", Usage: "reject []byte values, as if negotiated with a peer lacking byte-array support"},
		},
		Action: func(c *cli.Context) error {
			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return errors.Wrap(err, "packcli: read stdin")
			}

			v, err := jsonToValue(raw)
			if err != nil {
				return errors.Wrap(err, "packcli: parse JSON")
			}

			ch := wire.NewBufferChannel()
			p := packstream.NewPacker(ch)
			if c.Bool("no-byte-arrays") {
				p.SetByteArraysSupported(false)
			}
			if err := p.Pack(v, packstream.DefaultHooks()); err != nil {
				return errors.Wrap(err, "packcli: encode")
			}

			fmt.Printf("%x\n", ch.Bytes())
			return nil
		},
	}
}
