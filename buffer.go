package wlscale

import (
	"os"

	"github.com/elliotmr/wlscale/wlp"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Pool is a shared memory pool backed by an anonymous memfd, mapped on
// both sides of the connection. Window buffers are carved out of it.
type Pool struct {
	shm  *wlp.ShmPool
	file *os.File
	Data []byte
	size int32
}

// CreateMemoryPool creates a memfd-backed wl_shm_pool of the given
// size.
func (c *Client) CreateMemoryPool(size int32) (*Pool, error) {
	fd, err := unix.MemfdCreate("wlscale-shm", unix.MFD_CLOEXEC)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create backing memfd")
	}
	f := os.NewFile(uintptr(fd), "wlscale-shm")
	err = f.Truncate(int64(size))
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "unable to resize backing memfd")
	}

	data, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "unable to mmap backing memfd")
	}

	pool, err := c.shm.CreatePool(c, f, size)
	if err != nil {
		unix.Munmap(data)
		f.Close()
		return nil, errors.Wrap(err, "unable to create shm pool")
	}

	return &Pool{shm: pool, file: f, Data: data, size: size}, nil
}

// Grow enlarges the pool to at least the given size. The wl_shm_pool
// protocol only permits growing, so a smaller request is a no-op.
func (p *Pool) Grow(size int32) error {
	if size <= p.size {
		return nil
	}
	err := p.file.Truncate(int64(size))
	if err != nil {
		return errors.Wrap(err, "unable to grow backing memfd")
	}
	data, err := unix.Mmap(int(p.file.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return errors.Wrap(err, "unable to remap backing memfd")
	}
	err = p.shm.Resize(size)
	if err != nil {
		unix.Munmap(data)
		return errors.Wrap(err, "unable to resize shm pool")
	}
	unix.Munmap(p.Data)
	p.Data = data
	p.size = size
	return nil
}

// Size returns the pool size in bytes.
func (p *Pool) Size() int32 {
	return p.size
}

// Close releases the client-side mapping and destroys the pool. The
// server keeps the memory alive until all buffers created from the
// pool are gone.
func (p *Pool) Close() error {
	err := p.shm.Destroy()
	if merr := unix.Munmap(p.Data); err == nil {
		err = merr
	}
	if cerr := p.file.Close(); err == nil {
		err = cerr
	}
	p.Data = nil
	return err
}
