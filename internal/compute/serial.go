package compute

type SerialBackend struct{}

func NewSerialBackend() *SerialBackend {
	return &SerialBackend{}
}

func (s *SerialBackend) Name() string     { return "serial" }
func (s *SerialBackend) Concurrent() bool { return false }
func (s *SerialBackend) Workers() int     { return 1 }

func (s *SerialBackend) ParallelFor(n int, fn func(i int) error) error {
	return serialFor(0, n, fn)
}
