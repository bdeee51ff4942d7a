package server

import (
	"fmt"

	"github.com/ewc-project/ewc/internal/backend"
	"github.com/ewc-project/ewc/internal/compositor"
	"github.com/ewc-project/ewc/internal/proto"
	"github.com/ewc-project/ewc/internal/wire"
)

func (c *Client) handleShm(objID uint32, reqName string, msg wire.Message) error {
	if reqName != "create_pool" {
		return fmt.Errorf("%w: wl_shm.%s unknown", wire.ErrProtocol, reqName)
	}
	poolID := msg.Args[0].NewID
	fd := msg.Args[1].FD
	size := msg.Args[2].Int
	if size <= 0 {
		return fmt.Errorf("%w: create_pool: non-positive size", wire.ErrProtocol)
	}
	id, err := c.srv.backend.CreateShmPool(fd, size)
	if err != nil {
		return fmt.Errorf("create_pool: %w", err)
	}
	if err := c.register(poolID, proto.WlShmPool, 2); err != nil {
		return err
	}
	c.shmPools[poolID] = &shmPoolClient{id: id, fd: fd, size: size}
	return nil
}

func (c *Client) handleShmPool(objID uint32, reqName string, msg wire.Message) error {
	p, ok := c.shmPools[objID]
	if !ok {
		return nil
	}
	switch reqName {
	case "create_buffer":
		bufID := msg.Args[0].NewID
		spec := backend.ShmBufferSpec{
			Pool: p.id, Offset: msg.Args[1].Int,
			Width: msg.Args[2].Int, Height: msg.Args[3].Int,
			Stride: msg.Args[4].Int, Format: msg.Args[5].Uint,
		}
		if spec.Width <= 0 || spec.Height <= 0 {
			return fmt.Errorf("%w: create_buffer: non-positive dimensions", wire.ErrProtocol)
		}
		res := bufferResourceKey(c.id, bufID)
		if err := c.srv.backend.CreateShmBuffer(spec, res); err != nil {
			return fmt.Errorf("create_buffer: %w", err)
		}
		if err := c.register(bufID, proto.WlBuffer, 1); err != nil {
			return err
		}
		c.buffers[bufID] = &bufferEntry{resource: compositor.BufferResource(res), pool: p}
		p.nbufs++
		return nil
	case "destroy":
		delete(c.shmPools, objID)
		c.destroyObject(objID)
		if p.nbufs == 0 {
			c.srv.backend.ShmPoolResourceDestroyed(p.id)
		} else {
			p.pendingDestroy = true
		}
		return nil
	case "resize":
		newSize := msg.Args[0].Int
		if newSize < p.size {
			return fmt.Errorf("%w: resize: pool may only grow", wire.ErrProtocol)
		}
		if err := c.srv.backend.ResizeShmPool(p.id, newSize); err != nil {
			return fmt.Errorf("resize: %w", err)
		}
		p.size = newSize
		return nil
	}
	return fmt.Errorf("%w: wl_shm_pool.%s unknown", wire.ErrProtocol, reqName)
}

func (c *Client) handleBuffer(objID uint32, reqName string, msg wire.Message) error {
	be, ok := c.buffers[objID]
	if !ok {
		return nil
	}
	if reqName != "destroy" {
		return fmt.Errorf("%w: wl_buffer.%s unknown", wire.ErrProtocol, reqName)
	}
	delete(c.buffers, objID)
	c.destroyObject(objID)
	c.srv.backend.BufferResourceDestroyed(uint64(be.resource))
	if be.pool != nil {
		be.pool.nbufs--
		if be.pool.nbufs == 0 && be.pool.pendingDestroy {
			c.srv.backend.ShmPoolResourceDestroyed(be.pool.id)
		}
	}
	return nil
}

// releaseBuffer sends wl_buffer.release for objID unless its entry is
// marked released. No code path calls it: replacing or destroying a
// committed buffer unlocks it at the backend, but no wl_buffer.release
// reaches the client.
func (c *Client) releaseBuffer(objID uint32) {
	be, ok := c.buffers[objID]
	if !ok || be.released {
		return
	}
	c.conn.WriteMessage(objID, 0, proto.WlBuffer.Events[0].Sig, nil)
}

func (c *Client) handleOutput(objID uint32, reqName string, msg wire.Message) error {
	if reqName != "release" {
		return fmt.Errorf("%w: wl_output.%s unknown", wire.ErrProtocol, reqName)
	}
	delete(c.outputs, objID)
	c.destroyObject(objID)
	return nil
}
