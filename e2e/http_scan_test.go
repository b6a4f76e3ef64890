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
	adapterentities "clam-eye/adapters/entities"
	"clam-eye/common"
	"clam-eye/domain/entities"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
)

func (suite *E2E) TestVersion() {
	version, err := suite.orchestrator.Scanner.Version(context.Background())
	suite.Require().NoError(err)

	suite.Assert().NotEmpty(version.Engine)
	suite.Assert().Positive(version.Signatures)
}

func (suite *E2E) TestScanDir() {
	root := suite.createSamples(map[string]string{
		"clean.txt":       "nothing to see here",
		"eicar.com":       common.EicarSignature,
		"nested/eicar.sh": common.EicarSignature,
	})

	result, err := suite.orchestrator.Scanner.ScanDir(context.Background(), root, nil)
	suite.Require().NoError(err)

	suite.Assert().Equal([]string{filepath.Join(root, "clean.txt")}, result.GoodFiles)
	suite.Assert().ElementsMatch([]string{filepath.Join(root, "eicar.com"), filepath.Join(root, "nested/eicar.sh")}, result.BadFiles)
	suite.Assert().Empty(result.Errors)
	suite.Require().NotEmpty(result.Viruses)
	suite.Assert().Contains(strings.ToLower(result.Viruses[0]), "eicar")
}

func (suite *E2E) TestIsInfectedMissingFile() {
	verdict, err := suite.orchestrator.Scanner.IsInfected(context.Background(), filepath.Join(suite.samplesDir, "missing"))

	suite.Assert().True(entities.IsPathError(err))
	suite.Assert().Equal(entities.Indeterminate, verdict.Status)
}

func (suite *E2E) TestScanStream() {
	result, err := suite.orchestrator.Scanner.ScanStream(context.Background(), "upload", strings.NewReader(common.EicarSignature))
	suite.Require().NoError(err)

	suite.Assert().Equal([]string{"upload"}, result.BadFiles)
}

func (suite *E2E) TestHTTPScan() {
	app, err := suite.orchestrator.NewFiberApp()
	suite.Require().NoError(err)

	readiness := httptest.NewRequest("GET", "/healthcheck/readiness", http.NoBody)
	readinessResponse, err := app.Test(readiness, -1)
	suite.Require().NoError(err)
	readinessResponse.Body.Close()
	suite.Require().Equal(http.StatusOK, readinessResponse.StatusCode)

	body, contentType := common.PrepareRequestBody(suite.T(), "file", "eicar.com", []byte(common.EicarSignature))

	request := httptest.NewRequest("POST", "/v1/files", body)
	request.Header.Add("Content-type", contentType)

	httpResponse, err := app.Test(request, -1)
	suite.Require().NoError(err)
	defer httpResponse.Body.Close()

	suite.Require().Equal(http.StatusOK, httpResponse.StatusCode)

	var scanResponse adapterentities.ScanStreamResult
	suite.Require().NoError(json.NewDecoder(httpResponse.Body).Decode(&scanResponse))

	suite.Assert().Equal([]string{"eicar.com"}, scanResponse.BadFiles)
	suite.Assert().NotEmpty(scanResponse.Viruses)
}
