// internal/operation/write.go
package operation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tamzrod/motorctl/internal/codec"
	"github.com/tamzrod/motorctl/internal/registers"
)

// Write encodes input for one register and writes all its words in a
// single request. Read-only registers are rejected before any I/O.
func (s *Session) Write(id, input string) Result {
	s.log.Info("write register", "id", id, "value", input)

	s.mu.Lock()
	defer s.mu.Unlock()

	res := Result{ID: id, Input: input, Stage: StageResolving}

	d, err := s.Resolve(id)
	if err != nil {
		res.Err = err
		return res
	}
	res.Register, res.Resolved = d, true
	res.Stage = StageEncoding

	if !d.Writable() {
		res.Err = fmt.Errorf("%w: %s", ErrReadOnly, d.Name)
		s.log.Error("write rejected", "register", d.Name, "err", res.Err)
		return res
	}

	words, v, err := encodeInput(d, input)
	if err != nil {
		res.Err = err
		s.log.Error("write rejected", "register", d.Name, "value", input, "err", err)
		return res
	}
	res.Raw, res.Value = words, v

	s.log.Debug("write words", "register", d.Name, "addr", d.Address(), "words", words, "value", v.String())

	res.Stage = StageTransporting
	if err := s.tr.WriteRegisters(d.Address(), words); err != nil {
		res.Err = transportError("write", err)
		s.log.Error("write failed", "register", d.Name, "value", input, "code", res.TransportCode(), "err", res.Err)
		return res
	}

	res.Stage = StageDone
	s.log.Info("write ok", "register", d.Name, "value", input)
	return res
}

// encodeInput turns a write argument into register words. Bitfield
// registers with a bit map also accept a list of bit names.
func encodeInput(d registers.Descriptor, input string) ([]uint16, codec.Value, error) {
	x, err := parseNumber(input)
	if err != nil {
		if d.Meaning.Kind() != registers.MeaningBits {
			return nil, codec.Value{}, err
		}
		bits, ok := parseBitNames(d, input)
		if !ok {
			return nil, codec.Value{}, err
		}
		words, err := d.Codec.EncodeBits(bits)
		if err != nil {
			return nil, codec.Value{}, fmt.Errorf("encode %s=%q: %w", d.Name, input, err)
		}
		return words, codec.IntValue(int64(codec.ImplodeBits(bits))), nil
	}

	words, err := d.Codec.Encode(x)
	if err != nil {
		return nil, codec.Value{}, fmt.Errorf("encode %s=%q: %w", d.Name, input, err)
	}
	if d.Codec.Scaled() {
		return words, codec.RealValue(x), nil
	}
	return words, codec.IntValue(int64(math.Trunc(x))), nil
}

// parseBitNames reads "I2T_ERR,FNC_ERR", "Bit 29|PLIM_ERR" or None_Set.
func parseBitNames(d registers.Descriptor, input string) ([]bool, bool) {
	bits := make([]bool, d.SizeBits())
	if strings.EqualFold(strings.TrimSpace(input), registers.NoBitsSet) {
		return bits, true
	}

	fields := strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == '|' })
	if len(fields) == 0 {
		return nil, false
	}
	for _, f := range fields {
		b, ok := d.Meaning.BitPosition(strings.TrimSpace(f))
		if !ok || int(b) >= len(bits) {
			return nil, false
		}
		bits[b] = true
	}
	return bits, true
}

// parseNumber reads input as a real first, then as an integer
// (0x, 0o and 0b prefixes accepted).
func parseNumber(input string) (float64, error) {
	in := strings.TrimSpace(input)

	if f, err := strconv.ParseFloat(in, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("%w: %q is not finite", ErrInvalidValue, input)
		}
		return f, nil
	}
	if n, err := strconv.ParseInt(in, 0, 64); err == nil {
		return float64(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidValue, input)
}

// SetMode writes the ordinal of a MODE_REG symbol.
func (s *Session) SetMode(mode string) Result {
	d, err := s.Resolve(registers.ModeRegister)
	if err != nil {
		return Result{ID: registers.ModeRegister, Input: mode, Stage: StageResolving, Err: err}
	}

	n, ok := d.Meaning.Ordinal(mode)
	if !ok {
		err := fmt.Errorf("%w %q (available: %s)", ErrUnknownMode, mode, strings.Join(d.Meaning.Symbols(), ", "))
		s.log.Error("set mode failed", "mode", mode, "err", err)
		return Result{ID: registers.ModeRegister, Register: d, Resolved: true, Input: mode, Stage: StageResolving, Err: err}
	}

	s.log.Info("set mode", "mode", strings.ToUpper(mode), "value", n)
	return s.Write(registers.ModeRegister, strconv.FormatInt(n, 10))
}

// SendReset writes the reset code to the command register.
func (s *Session) SendReset() Result {
	s.log.Warn("sending RESET command", "register", registers.CommandRegister, "code", registers.CommandReset)
	return s.command(registers.CommandReset)
}

// SaveToFlash writes the save-in-flash code to the command register.
func (s *Session) SaveToFlash() Result {
	s.log.Warn("sending SAVE IN FLASH command", "register", registers.CommandRegister, "code", registers.CommandSaveInFlash)
	return s.command(registers.CommandSaveInFlash)
}

func (s *Session) command(code int) Result {
	return s.Write(registers.CommandRegister, strconv.Itoa(code))
}
