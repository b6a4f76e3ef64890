/*
 *    Copyright 2023 iFood
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"os"
)

func NewZapLogger(debug bool) (Logger, error) {
	var atom = zap.NewAtomicLevel()
	if debug {
		atom.SetLevel(zap.DebugLevel)
	} else {
		atom.SetLevel(zap.InfoLevel)
	}

	zapLog, err := newJSONConfig(atom, []string{"stderr"}).Build()
	if err != nil {
		return nil, err
	}

	return zapLog.Sugar(), nil
}

// NewScanLogger appends one JSON record per verdict to path. The file is created if missing.
// The returned func syncs and closes the file.
func NewScanLogger(path string) (Logger, func() error, error) {
	if path == "" {
		return NewDiscardLog(), func() error { return nil }, nil
	}

	sink, closeSink, err := zap.Open(path)
	if err != nil {
		return nil, nil, err
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(newEncoderConfig()), sink, zap.InfoLevel)
	zapLog := zap.New(core, zap.ErrorOutput(zapcore.Lock(os.Stderr)))

	closeFn := func() error {
		err := zapLog.Sync()
		closeSink()

		return err
	}

	return zapLog.Sugar(), closeFn, nil
}

func newEncoderConfig() zapcore.EncoderConfig {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.MessageKey = "message"
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return encoderConfig
}

func newJSONConfig(level zap.AtomicLevel, outputs []string) zap.Config {
	return zap.Config{
		Level:            level,
		Development:      false,
		Sampling:         nil,
		Encoding:         "json",
		EncoderConfig:    newEncoderConfig(),
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}
}
