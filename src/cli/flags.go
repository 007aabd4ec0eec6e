package cli

import "path/filepath"

// A Filepath is a string that's specifically a file path; it's given its own type
// so we can be clear about when we're parsing flags that represent one.
type Filepath string

// UnmarshalFlag implements the flags.Unmarshaler interface.
func (f *Filepath) UnmarshalFlag(in string) error {
	abs, err := filepath.Abs(in)
	if err != nil {
		return err
	}
	*f = Filepath(abs)
	return nil
}

func (f Filepath) String() string {
	return string(f)
}
