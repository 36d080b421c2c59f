package linearhashmap

import "github.com/gostonefire/linearhashmap/channel"

// dataSuffix and fsmSuffix are the default file-name suffixes used by
// OpenFiles/OpenNewFiles.
const (
	dataSuffix = ".lhdata"
	fsmSuffix  = ".lhfsm"
)

// OpenFiles reopens a map previously created with OpenNewFiles(name, ...),
// opening name+".lhdata" and name+".lhfsm" and delegating to Open.
func OpenFiles(name string, opts *Options) (*Map, error) {
	data, err := channel.OpenFileChannel(name + dataSuffix)
	if err != nil {
		return nil, err
	}
	fsmCh, err := channel.OpenFileChannel(name + fsmSuffix)
	if err != nil {
		_ = data.Close()
		return nil, err
	}

	m, err := Open(data, fsmCh, opts)
	if err != nil {
		_ = data.Close()
		_ = fsmCh.Close()
		return nil, err
	}
	return m, nil
}

// OpenNewFiles creates a new map backed by name+".lhdata" and
// name+".lhfsm", delegating to OpenNew.
func OpenNewFiles(name string, initialSize uint32, opts *Options) (*Map, error) {
	data, err := channel.OpenFileChannel(name + dataSuffix)
	if err != nil {
		return nil, err
	}
	fsmCh, err := channel.OpenFileChannel(name + fsmSuffix)
	if err != nil {
		_ = data.Close()
		return nil, err
	}

	m, err := OpenNew(data, fsmCh, initialSize, opts)
	if err != nil {
		_ = data.Close()
		_ = fsmCh.Close()
		return nil, err
	}
	return m, nil
}
