package commands

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"

	"github.com/chaisql/packstream"
	"github.com/chaisql/packstream/internal/wire"
)

func newDecodeCommand() *cli.Command {
	return &cli.Command{
		Name:  "decode",
		Usage: "read a hex-encoded PackStream value from stdin and print its decoded form",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "big-integer", Usage: "decode integers as arbitrary-precision values"},
			&cli.BoolFlag{Name: "no-lossless-integers", Usage: "decode integers as saturating float64"},
		},
		Action: func(c *cli.Context) error {
			hexText, err := readAllTrimmed(os.Stdin)
			if err != nil {
				return errors.Wrap(err, "packcli: read stdin")
			}

			raw, err := hex.DecodeString(hexText)
			if err != nil {
				return errors.Wrap(err, "packcli: decode hex")
			}

			u := packstream.NewUnpacker(wire.NewCursor(raw))
			switch {
			case c.Bool("big-integer"):
				u.SetUseBigInteger(true)
			case c.Bool("no-lossless-integers"):
				u.SetDisableLosslessIntegers(true)
			}

			v, err := u.Unpack(packstream.DefaultHooks())
			if err != nil {
				return errors.Wrap(err, "packcli: decode")
			}

			fmt.Println(formatValue(v))
			return nil
		},
	}
}

func readAllTrimmed(r *os.File) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var sb strings.Builder
	for scanner.Scan() {
		sb.WriteString(strings.TrimSpace(scanner.Text()))
	}
	return sb.String(), scanner.Err()
}
