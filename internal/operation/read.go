// internal/operation/read.go
package operation

import (
	"github.com/tamzrod/motorctl/internal/registers"
)

// Read reads each identifier in order. Failures are isolated per item:
// one bad register never stops its siblings.
func (s *Session) Read(ids []string) []Result {
	s.log.Info("read registers", "ids", ids)

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Result, 0, len(ids))
	for _, id := range ids {
		d, err := s.Resolve(id)
		if err != nil {
			out = append(out, Result{ID: id, Stage: StageResolving, Err: err})
			continue
		}
		res := s.readLocked(d)
		res.ID = id
		out = append(out, res)
	}
	return out
}

// ReadRegisters reads already-resolved registers under one lock scope.
func (s *Session) ReadRegisters(ds []registers.Descriptor) []Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Result, 0, len(ds))
	for _, d := range ds {
		res := s.readLocked(d)
		res.ID = d.Name
		out = append(out, res)
	}
	return out
}

func (s *Session) readLocked(d registers.Descriptor) Result {
	res := Result{Register: d, Resolved: true}

	words, err := s.tr.ReadHoldingRegisters(d.Address(), d.Words())
	if err != nil {
		res.Stage = StageTransporting
		res.Err = transportError("read", err)
		s.log.Error("read failed", "register", d.Name, "number", d.Number, "err", res.Err)
		return res
	}
	res.Raw = words

	v, err := d.Decode(words)
	if err != nil {
		res.Stage = StageDecoding
		res.Err = err
		s.log.Error("decode failed", "register", d.Name, "raw", words, "err", err)
		return res
	}
	res.Value = v
	res.Annotation, res.Annotated = registers.Format(v, d.Meaning)
	res.Stage = StageDone

	s.log.Debug("read ok", "register", d.Name, "value", v.String(), "raw", words)
	return res
}
