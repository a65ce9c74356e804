// mmrsum builds a Merkle Mountain Range over the lines of a file and
// emits or checks inclusion proofs against its root. Each line, newline
// stripped, is one appended element; leaves are addressed by line number
// counting from zero.
package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"

	sha256 "github.com/minio/sha256-simd"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/summitlog/mmr"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

func main() {
	app := &cli.App{
		Name:  "mmrsum",
		Usage: "append-only authenticated digests of line based logs",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable debug logging"},
		},
		Before: func(c *cli.Context) error {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if c.Bool("verbose") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			rootCommand(),
			proveCommand(),
			verifyCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("mmrsum failed")
	}
}

func rootCommand() *cli.Command {
	return &cli.Command{
		Name:  "root",
		Usage: "print the MMR root of a log file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Usage: "log file, one element per line", Required: true},
		},
		Action: func(c *cli.Context) error {
			m, count, err := accumulate(c.String("in"))
			if err != nil {
				return err
			}
			log.Info().Uint64("leaves", count).Uint64("size", m.Size()).Msg("accumulated")
			fmt.Println(hex.EncodeToString(m.Root()))
			return nil
		},
	}
}

func proveCommand() *cli.Command {
	return &cli.Command{
		Name:  "prove",
		Usage: "emit a CBOR range proof for a run of lines",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Usage: "log file, one element per line", Required: true},
			&cli.Uint64Flag{Name: "start", Usage: "first line of the range (0 based)", Required: true},
			&cli.Uint64Flag{Name: "end", Usage: "last line of the range, defaults to start"},
		},
		Action: func(c *cli.Context) error {
			start := c.Uint64("start")
			end := start
			if c.IsSet("end") {
				end = c.Uint64("end")
			}
			m, count, err := accumulate(c.String("in"))
			if err != nil {
				return err
			}
			if end < start || end >= count {
				return fmt.Errorf("line range %d..%d outside log of %d lines", start, end, count)
			}

			startPos, endPos := mmr.LeafPosition(start), mmr.LeafPosition(end)
			proof, err := m.RangeProof(startPos, endPos)
			if err != nil {
				return err
			}
			wire, err := proof.MarshalCBOR()
			if err != nil {
				return err
			}
			log.Debug().
				Uint64("startPos", startPos).
				Uint64("endPos", endPos).
				Int("hashes", len(proof.Hashes())).
				Msg("proof extracted")
			fmt.Println(hex.EncodeToString(wire))
			return nil
		},
	}
}

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "check a proof for a run of lines against a trusted root",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Usage: "log file, one element per line", Required: true},
			&cli.Uint64Flag{Name: "start", Usage: "first line of the range (0 based)", Required: true},
			&cli.Uint64Flag{Name: "end", Usage: "last line of the range, defaults to start"},
			&cli.StringFlag{Name: "root", Usage: "trusted root digest, hex", Required: true},
			&cli.StringFlag{Name: "proof", Usage: "CBOR proof, hex", Required: true},
		},
		Action: func(c *cli.Context) error {
			start := c.Uint64("start")
			end := start
			if c.IsSet("end") {
				end = c.Uint64("end")
			}
			root, err := hex.DecodeString(c.String("root"))
			if err != nil {
				return fmt.Errorf("decoding root: %w", err)
			}
			wire, err := hex.DecodeString(c.String("proof"))
			if err != nil {
				return fmt.Errorf("decoding proof: %w", err)
			}
			var proof mmr.Proof
			if err := proof.UnmarshalCBOR(wire); err != nil {
				return err
			}

			elements, err := readElements(c.String("in"))
			if err != nil {
				return err
			}
			if end < start || end >= uint64(len(elements)) {
				return fmt.Errorf("line range %d..%d outside log of %d lines", start, end, len(elements))
			}

			ok := proof.VerifyRangeInclusion(
				sha256.New(),
				elements[start:end+1],
				mmr.LeafPosition(start),
				mmr.LeafPosition(end),
				root,
			)
			if !ok {
				log.Error().Uint64("start", start).Uint64("end", end).Msg("proof did NOT verify")
				return cli.Exit("verification failed", 1)
			}
			log.Info().Uint64("start", start).Uint64("end", end).Msg("proof verified")
			return nil
		},
	}
}

func accumulate(path string) (*mmr.MMR, uint64, error) {
	elements, err := readElements(path)
	if err != nil {
		return nil, 0, err
	}
	m := mmr.New(sha256.New())
	for _, element := range elements {
		m.Add(element)
	}
	return m, uint64(len(elements)), nil
}

func readElements(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var elements [][]byte
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		elements = append(elements, append([]byte{}, scanner.Bytes()...))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return elements, nil
}
