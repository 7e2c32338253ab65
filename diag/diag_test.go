package diag_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ezrec/pasm/cpu"
	"github.com/ezrec/pasm/diag"
	"github.com/ezrec/pasm/emulator"
)

var _ = Describe("Reporter", func() {
	var (
		output   *bytes.Buffer
		exitCode int
		reporter *diag.Reporter
		lines    []string
	)

	BeforeEach(func() {
		output = &bytes.Buffer{}
		exitCode = -1
		reporter = &diag.Reporter{
			Output: output,
			Exit:   func(code int) { exitCode = code },
		}
		lines = nil
		for n := range 20 {
			lines = append(lines, fmt.Sprintf("set x %d", n))
		}
	})

	body := func() []string {
		text := strings.TrimSuffix(output.String(), "\n")
		return strings.Split(text, "\n")
	}

	It("should print five lines of context on each side", func() {
		reporter.Context(lines, 10, "broken")

		out := body()
		Expect(out).To(HaveLen(13))
		Expect(out[0]).To(MatchRegexp(`^-+$`))
		Expect(out[1]).To(Equal("       6 | set x 5"))
		Expect(out[6]).To(Equal("      11 | set x 10 <----------------- broken"))
		Expect(out[11]).To(Equal("      16 | set x 15"))
		Expect(out[12]).To(MatchRegexp(`^-+$`))
	})

	It("should clip context at the start of the source", func() {
		reporter.Context(lines, 1, "broken")

		out := body()
		Expect(out).To(HaveLen(9))
		Expect(out[1]).To(Equal("       1 | set x 0"))
		Expect(out[2]).To(ContainSubstring("<----------------- broken"))
	})

	It("should clip context at the end of the source", func() {
		reporter.Context(lines, 19, "broken")

		out := body()
		Expect(out).To(HaveLen(8))
		Expect(out[6]).To(Equal("      20 | set x 19 <----------------- broken"))
	})

	It("should report assembly errors at their line and exit", func() {
		asm := &cpu.Assembler{}
		_, err := asm.ParseLines([]string{"set x 1", "", "jump x"})
		Expect(err).To(HaveOccurred())

		reporter.Fatal(asm.Lines, err)

		Expect(exitCode).To(Equal(diag.EXIT_CODE))
		Expect(output.String()).To(ContainSubstring("       3 | jump x <----------------- unknown instruction"))
	})

	It("should report runtime errors at their line and exit", func() {
		source := []string{"set x 1", "div x 0"}
		asm := &cpu.Assembler{}
		prog, err := asm.ParseLines(source)
		Expect(err).NotTo(HaveOccurred())

		emu := emulator.NewEmulator(0, 0)
		emu.Program = prog
		Expect(emu.Reset()).To(Succeed())
		err = emu.Run()
		Expect(errors.Is(err, cpu.ErrDivideByZero)).To(BeTrue())

		reporter.Fatal(prog.Lines, err)

		Expect(exitCode).To(Equal(diag.EXIT_CODE))
		Expect(output.String()).To(ContainSubstring("       2 | div x 0 <-----------------"))
		Expect(output.String()).To(ContainSubstring("division by zero"))
	})

	It("should report unlocated errors without context", func() {
		reporter.Fatal(lines, errors.New("disk on fire"))

		Expect(exitCode).To(Equal(diag.EXIT_CODE))
		Expect(output.String()).To(Equal("disk on fire\n"))
	})
})
