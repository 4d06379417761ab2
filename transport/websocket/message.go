package websocket

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

const (
	opContinuation = 0x0
	opText         = 0x1
	opClose        = 0x8
	opPing         = 0x9
	opPong         = 0xa
)

// frame represents a WebSocket frame and its metadata.
type frame struct {
	isFin   bool
	opCode  byte
	length  uint64
	payload []byte
}

// connection - one client connection. Writes are serialized: replies come
// from the connection's read goroutine while broadcasts come from room
// goroutines.
type connection struct {
	id         string
	playerID   string
	playerName string
	bufrw      *bufio.ReadWriter

	writeMu sync.Mutex
}

func (that *connection) send(action string, payload Payload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	responseBytes, err := json.Marshal(Message{
		Action:  action,
		Payload: payloadJSON,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	return that.writeFrame(frame{
		isFin:   true,
		opCode:  opText,
		length:  uint64(len(responseBytes)),
		payload: responseBytes,
	})
}

func (that *connection) writeFrame(frameData frame) error {
	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	buf := make([]byte, 2)
	buf[0] |= frameData.opCode

	if frameData.isFin {
		buf[0] |= 0x80
	}

	switch {
	case frameData.length < 126:
		buf[1] |= byte(frameData.length)
	case frameData.length < 1<<16:
		buf[1] |= 126
		size := make([]byte, 2)
		binary.BigEndian.PutUint16(size, uint16(frameData.length))
		buf = append(buf, size...) //nolint: makezero // header is variable-length
	default:
		buf[1] |= 127
		size := make([]byte, 8)
		binary.BigEndian.PutUint64(size, frameData.length)
		buf = append(buf, size...) //nolint: makezero // header is variable-length
	}

	buf = append(buf, frameData.payload...) //nolint: makezero // header is variable-length

	if _, err := that.bufrw.Write(buf); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	if err := that.bufrw.Flush(); err != nil {
		return fmt.Errorf("failed to flush buffer: %w", err)
	}

	return nil
}

// readMessage - assembles the next text message, transparently answering
// pings and turning a close frame into io.EOF.
func (that *connection) readMessage() ([]byte, error) {
	var message []byte

	for {
		frameData, err := that.readFrame()
		if err != nil {
			return nil, err
		}

		switch frameData.opCode {
		case opClose:
			return nil, io.EOF
		case opPing:
			if err = that.writeFrame(frame{isFin: true, opCode: opPong, length: frameData.length, payload: frameData.payload}); err != nil {
				return nil, err
			}
			continue
		case opPong:
			continue
		case opText, opContinuation:
			message = append(message, frameData.payload...)
			if frameData.isFin {
				return message, nil
			}
		default:
			// binary and reserved opcodes are not part of the protocol
			continue
		}
	}
}

func (that *connection) readFrame() (*frame, error) {
	header := make([]byte, 2)
	if _, err := io.ReadFull(that.bufrw, header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	finBit := header[0]>>7 == 1
	opCode := header[0] & 0x0f
	maskBit := header[1]>>7 == 1
	payloadLen := header[1] & 0x7f

	size, err := that.readPayloadLength(payloadLen)
	if err != nil {
		return nil, err
	}

	mask, err := that.readMask(maskBit)
	if err != nil {
		return nil, err
	}

	payload, err := that.readData(size, mask)
	if err != nil {
		return nil, err
	}

	return &frame{
		isFin:   finBit,
		opCode:  opCode,
		length:  size,
		payload: payload,
	}, nil
}

func (that *connection) readPayloadLength(payloadLen byte) (uint64, error) {
	if payloadLen < 126 {
		return uint64(payloadLen), nil
	}

	if payloadLen == 126 {
		length := make([]byte, 2)
		if _, err := io.ReadFull(that.bufrw, length); err != nil {
			return 0, fmt.Errorf("failed to read payload length: %w", err)
		}
		return uint64(binary.BigEndian.Uint16(length)), nil
	}

	length := make([]byte, 8)
	if _, err := io.ReadFull(that.bufrw, length); err != nil {
		return 0, fmt.Errorf("failed to read payload length: %w", err)
	}

	return binary.BigEndian.Uint64(length), nil
}

func (that *connection) readMask(maskBit bool) ([]byte, error) {
	if !maskBit {
		return nil, nil
	}

	mask := make([]byte, 4)
	if _, err := io.ReadFull(that.bufrw, mask); err != nil {
		return nil, fmt.Errorf("failed to read mask: %w", err)
	}

	return mask, nil
}

func (that *connection) readData(size uint64, mask []byte) ([]byte, error) {
	payload := make([]byte, size)
	if _, err := io.ReadFull(that.bufrw, payload); err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	if mask != nil {
		for i := range payload {
			payload[i] ^= mask[i%4]
		}
	}

	return payload, nil
}
