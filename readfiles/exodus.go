package readfiles

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/notargets/gopart/utils"
)

// ExodusTools names the executables used to turn an Exodus mesh into
// Triangle .node / .ele files
type ExodusTools struct {
	Ncdump       string // NetCDF dump tool, writes base.ncdf from base.exo
	Exo2Triangle string // Converter from the NetCDF dump to base.node / base.ele
}

func DefaultExodusTools() ExodusTools {
	return ExodusTools{
		Ncdump:       "ncdump",
		Exo2Triangle: "./Exo2Triangle.exe",
	}
}

// ConvertExodus runs "ncdump base.exo > base.ncdf" followed by
// "Exo2Triangle --i=base.ncdf --o=base"
func ConvertExodus(ctx context.Context, tools ExodusTools, basename string) (err error) {
	var out *os.File
	if out, err = os.Create(basename + ".ncdf"); err != nil {
		return
	}
	log.Printf("Converting %s.exo to NetCDF text", basename)
	err = RunTool(ctx, out, nil, tools.Ncdump, basename+".exo")
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return
	}
	log.Printf("Converting %s.ncdf to Triangle format", basename)
	if err = RunTool(ctx, nil, nil, tools.Exo2Triangle,
		"--i="+basename+".ncdf", "--o="+basename); err != nil {
		return
	}
	for _, ext := range []string{".node", ".ele"} {
		if _, serr := os.Stat(basename + ext); serr != nil {
			return fmt.Errorf("%s did not produce %s%s: %w",
				tools.Exo2Triangle, basename, ext, utils.ErrExternalTool)
		}
	}
	return
}

// RunTool runs an external program to completion. A start failure or a
// non-zero exit is reported as ErrExternalTool with the tail of stderr.
func RunTool(ctx context.Context, stdout io.Writer, stdin io.Reader, name string, args ...string) error {
	return RunToolIn(ctx, "", stdout, stdin, name, args...)
}

// RunToolIn is RunTool with dir as the working directory of the program
func RunToolIn(ctx context.Context, dir string, stdout io.Writer, stdin io.Reader, name string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if stdout != nil {
		cmd.Stdout = stdout
	}
	if stdin != nil {
		cmd.Stdin = stdin
	}
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > 512 {
			msg = msg[len(msg)-512:]
		}
		if msg != "" {
			return fmt.Errorf("%s %s: %v: %s: %w", name, strings.Join(args, " "), err, msg, utils.ErrExternalTool)
		}
		return fmt.Errorf("%s %s: %v: %w", name, strings.Join(args, " "), err, utils.ErrExternalTool)
	}
	return nil
}
