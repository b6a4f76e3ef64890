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

package e2e

import (
	"clam-eye/adapters/out"
	"clam-eye/app"
	"clam-eye/common"
	"clam-eye/config"
	"clam-eye/domain/entities"
	"clam-eye/logging"
	"clam-eye/metrics"
	"context"
	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/suite"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

const clamdStartupTimeout = 5 * time.Minute

type E2E struct {
	suite.Suite
	clamdStack *dockertest.Resource
	cancelLogs context.CancelFunc

	samplesDir   string
	orchestrator *app.Orchestrator
}

func TestE2ESuite(t *testing.T) {
	if os.Getenv("E2E") != "1" {
		t.Skip("set E2E=1 to run the suite against a real clamd container")
	}

	suite.Run(t, new(E2E))
}

func (suite *E2E) SetupSuite() {
	ctx := context.Background()

	samplesDir, err := os.MkdirTemp("", "clam-eye-e2e-")
	suite.Require().NoError(err)
	// clamd runs as an unprivileged user inside the container
	suite.Require().NoError(os.Chmod(samplesDir, 0o755))
	suite.samplesDir = samplesDir

	pool, err := dockertest.NewPool("")
	suite.Require().NoError(err)

	clamdStackConfig := &dockertest.RunOptions{
		Repository:   "clamav/clamav",
		Tag:          "1.2",
		ExposedPorts: []string{"3310/tcp"},
		// Same path on both sides so that the daemon can open what the host asks it to scan
		Mounts: []string{samplesDir + ":" + samplesDir + ":ro"},
	}

	clamdStack, err := pool.RunWithOptions(clamdStackConfig)
	suite.Require().NoError(err)
	suite.clamdStack = clamdStack

	logsCtx, cancelLogs := context.WithCancel(ctx)
	suite.cancelLogs = cancelLogs

	go common.RedirectContainerOutput(logsCtx, pool, clamdStack.Container.ID)

	port, err := strconv.Atoi(clamdStack.GetPort("3310/tcp"))
	suite.Require().NoError(err)

	daemon := entities.ClamdscanOptions{Host: "localhost", Port: port, Timeout: 30 * time.Second}
	probe := out.NewClamdProbe()

	// The image downloads signatures before clamd starts listening
	suite.Require().Eventually(func() bool {
		pingErr := probe.Ping(ctx, daemon)
		log.Printf("clamd: err: %v\n", pingErr)

		return pingErr == nil
	}, clamdStartupTimeout, 10*time.Second)

	appConfig := config.NewConfig()
	appConfig.Scanner.TempDir = filepath.Join(samplesDir, "spool")
	appConfig.Scanner.Preference = string(entities.PreferDaemon)
	appConfig.Scanner.Clamscan.Active = false
	appConfig.Scanner.Clamdscan.Host = "localhost"
	appConfig.Scanner.Clamdscan.Port = port
	appConfig.Scanner.Clamdscan.LocalFallback = false

	orchestrator, err := app.New(ctx, *appConfig, logging.NewDiscardLog(), metrics.NewNoopScope())
	suite.Require().NoError(err)
	suite.orchestrator = orchestrator
}

func (suite *E2E) TearDownSuite() {
	log.Println("finishing e2e tests")

	if suite.orchestrator != nil {
		suite.Assert().NoError(suite.orchestrator.Close(context.Background()))
	}

	suite.teardownContainers()

	if suite.samplesDir != "" {
		suite.Assert().NoError(os.RemoveAll(suite.samplesDir))
	}
}

func (suite *E2E) teardownContainers() {
	if suite.cancelLogs != nil {
		suite.cancelLogs()
	}

	if suite.clamdStack != nil {
		suite.Assert().NoError(suite.clamdStack.Close())
	}
}

// createSamples writes world readable files under a fresh directory of the shared mount.
func (suite *E2E) createSamples(files map[string]string) string {
	root, err := os.MkdirTemp(suite.samplesDir, "samples-")
	suite.Require().NoError(err)
	suite.Require().NoError(os.Chmod(root, 0o755))

	for name, content := range files {
		target := filepath.Join(root, name)
		suite.Require().NoError(os.MkdirAll(filepath.Dir(target), 0o755))
		suite.Require().NoError(os.WriteFile(target, []byte(content), 0o644))
	}

	return root
}
