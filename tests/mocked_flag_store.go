package tests

type MockedFlagStore struct {
	Values         []string
	Err            error
	ExecutionCount int
}

func (fs *MockedFlagStore) Flag(value string) error {
	fs.ExecutionCount++
	if fs.Err != nil {
		return fs.Err
	}

	fs.Values = append(fs.Values, value)
	return nil
}
