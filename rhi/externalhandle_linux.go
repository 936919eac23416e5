//go:build linux

package rhi

import (
	"encoding/binary"
	"net"

	"golang.org/x/sys/unix"

	"github.com/tatolab/streamlib/streamerr"
)

// exportPixelBuffer backs buf's bytes with an anonymous, sealable
// memfd so the fd alone is enough for an importer (in this process or
// another, once the fd crosses via SCM_RIGHTS) to map the same
// memory.
func exportPixelBuffer(buf *PixelBuffer) (ExternalHandle, error) {
	data := buf.Bytes()
	fd, err := unix.MemfdCreate("streamlib-pixelbuffer", 0)
	if err != nil {
		return ExternalHandle{}, streamerr.Wrap(streamerr.GpuError, err, "rhi: memfd_create failed")
	}
	if err := unix.Ftruncate(fd, int64(len(data))); err != nil {
		unix.Close(fd)
		return ExternalHandle{}, streamerr.Wrap(streamerr.GpuError, err, "rhi: ftruncate failed")
	}
	if len(data) > 0 {
		mapped, err := unix.Mmap(fd, 0, len(data), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
		if err != nil {
			unix.Close(fd)
			return ExternalHandle{}, streamerr.Wrap(streamerr.GpuError, err, "rhi: mmap failed")
		}
		copy(mapped, data)
		if err := unix.Munmap(mapped); err != nil {
			unix.Close(fd)
			return ExternalHandle{}, streamerr.Wrap(streamerr.GpuError, err, "rhi: munmap failed")
		}
	}
	return ExternalHandle{
		Kind:   ExternalHandleDmaBuf,
		Width:  buf.Width(),
		Height: buf.Height(),
		Format: buf.Format(),
		DmaBuf: &DmaBufHandle{Fd: fd, Size: len(data)},
	}, nil
}

// importPixelBuffer maps the memory named by handle and copies it
// into a fresh, process-local PixelBuffer; the returned buffer does not
// alias the memfd or the exported buffer.
func importPixelBuffer(handle ExternalHandle) (*PixelBuffer, error) {
	if handle.Kind != ExternalHandleDmaBuf || handle.DmaBuf == nil {
		return nil, streamerr.New(streamerr.Configuration, "rhi: handle is not a DmaBuf variant")
	}
	if handle.DmaBuf.Size == 0 {
		return NewPixelBuffer(handle.Width, handle.Height, handle.Format, nil, nil), nil
	}
	mapped, err := unix.Mmap(handle.DmaBuf.Fd, 0, handle.DmaBuf.Size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, streamerr.Wrap(streamerr.GpuError, err, "rhi: mmap failed")
	}
	defer unix.Munmap(mapped)
	data := make([]byte, len(mapped))
	copy(data, mapped)
	return NewPixelBuffer(handle.Width, handle.Height, handle.Format, data, nil), nil
}

// SendDmaBufFD transmits a DmaBuf handle's fd over conn via SCM_RIGHTS,
// encoding Size as a little-endian uint64 alongside the control
// message.
func SendDmaBufFD(conn *net.UnixConn, handle DmaBufHandle) error {
	var sizeBuf [8]byte
	binary.LittleEndian.PutUint64(sizeBuf[:], uint64(handle.Size))
	oob := unix.UnixRights(handle.Fd)
	_, _, err := conn.WriteMsgUnix(sizeBuf[:], oob, nil)
	if err != nil {
		return streamerr.Wrap(streamerr.GpuError, err, "rhi: SendDmaBufFD failed")
	}
	return nil
}

// RecvDmaBufFD is SendDmaBufFD's counterpart: it reads the size
// payload and the fd passed via SCM_RIGHTS off conn.
func RecvDmaBufFD(conn *net.UnixConn) (DmaBufHandle, error) {
	var sizeBuf [8]byte
	oob := make([]byte, unix.CmsgSpace(4))
	n, oobn, _, _, err := conn.ReadMsgUnix(sizeBuf[:], oob)
	if err != nil {
		return DmaBufHandle{}, streamerr.Wrap(streamerr.GpuError, err, "rhi: RecvDmaBufFD failed")
	}
	if n != len(sizeBuf) {
		return DmaBufHandle{}, streamerr.New(streamerr.GpuError, "rhi: RecvDmaBufFD short read of size payload")
	}
	cmsgs, err := unix.ParseSocketControlMessage(oob[:oobn])
	if err != nil {
		return DmaBufHandle{}, streamerr.Wrap(streamerr.GpuError, err, "rhi: parsing control message failed")
	}
	if len(cmsgs) == 0 {
		return DmaBufHandle{}, streamerr.New(streamerr.GpuError, "rhi: RecvDmaBufFD received no control message")
	}
	fds, err := unix.ParseUnixRights(&cmsgs[0])
	if err != nil {
		return DmaBufHandle{}, streamerr.Wrap(streamerr.GpuError, err, "rhi: parsing unix rights failed")
	}
	if len(fds) == 0 {
		return DmaBufHandle{}, streamerr.New(streamerr.GpuError, "rhi: RecvDmaBufFD received no fd")
	}
	return DmaBufHandle{Fd: fds[0], Size: int(binary.LittleEndian.Uint64(sizeBuf[:]))}, nil
}
